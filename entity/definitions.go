package entity

var (
	Driver = Entity{
		Name:  "Driver",
		Label: "Driver",
		Tag:   "Drivers",
		Path:  "drivers",
		Table: "drivers",
		Fields: []Field{
			{Name: "name", Type: Text, Description: "Full name of the driver", Example: "Jane Mwangi"},
			{Name: "contact", Type: Text, Description: "Phone number of the driver", Example: "+254700111222"},
			{Name: "license_number", Type: Text, Description: "Driving licence number", Example: "DL-48213"},
			{Name: "vehicle_assigned", Type: Text, Description: "Registration of the assigned vehicle", Example: "KDA 123X"},
			{Name: "email", Type: Text, Description: "Email address of the driver", Example: "jane.mwangi@example.com"},
		},
	}

	Customer = Entity{
		Name:  "Customer",
		Label: "Customer",
		Tag:   "Customers",
		Path:  "customers",
		Table: "customers",
		Fields: []Field{
			{Name: "name", Type: Text, Description: "The name of the customer", Example: "John Doe"},
			{Name: "email", Type: Text, Description: "The email of the customer", Example: "john.doe@example.com"},
			{Name: "phone", Type: Text, Description: "The phone number of the customer", Example: "+254123456789"},
		},
	}

	Order = Entity{
		Name:  "Order",
		Label: "Order",
		Tag:   "Orders",
		Path:  "orders",
		Table: "orders",
		Fields: []Field{
			{Name: "customer_id", Type: Integer, Description: "Customer placing the order", Example: 1},
			{Name: "driver_id", Type: Integer, Description: "Driver delivering the order", Example: 1},
			{Name: "package_details", Type: Text, Description: "Description of the package", Example: "2 boxes, 14kg"},
			{Name: "order_date", Type: DateTime, Example: "2024-09-01T08:00:00Z"},
			{Name: "delivery_date", Type: DateTime, Example: "2024-09-02T17:30:00Z"},
			{Name: "status", Type: Text, Description: "Delivery status", Example: "Pending"},
		},
	}

	Payment = Entity{
		Name:  "Payment",
		Label: "Payment",
		Tag:   "Payments",
		Path:  "payments",
		Table: "payments",
		Fields: []Field{
			{Name: "order_id", Type: Integer, Description: "Order being paid for", Example: 1},
			{Name: "amount", Type: Number, Description: "Amount charged", Example: 49.99},
			{Name: "payment_method", Type: Text, Example: "M-Pesa"},
			{Name: "status", Type: Text, Example: "Completed"},
			{Name: "transaction_date", Type: DateTime, Example: "2024-09-01T08:05:00Z"},
		},
	}

	Communication = Entity{
		Name:  "Communication",
		Label: "Communication",
		Tag:   "Communications",
		Path:  "communications",
		Table: "communications",
		Fields: []Field{
			{Name: "sender_name", Type: Text, Description: "Who sent the message", Example: "Dispatch"},
			{Name: "message", Type: Text, Description: "The content of the communication", Example: "This is a new communication."},
		},
	}

	DriverPerformance = Entity{
		Name:  "DriverPerformance",
		Label: "Driver performance record",
		Tag:   "Driver Performance",
		Path:  "driver-performance",
		Table: "driver_performance",
		Fields: []Field{
			{Name: "driver_id", Type: Integer, Description: "Driver the record belongs to", Example: 1},
			{Name: "completed_trips", Type: Integer, Example: 120},
			{Name: "on_time_delivery_rate", Type: Number, Description: "Share of deliveries on time", Example: 0.95},
			{Name: "fuel_efficiency", Type: Number, Description: "Kilometres per litre", Example: 12.4},
		},
	}
)

// All returns the six entities in the order they are mounted and documented.
func All() []Entity {
	return []Entity{Driver, Customer, Order, Payment, Communication, DriverPerformance}
}
