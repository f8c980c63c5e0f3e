package domain

// Rental is one entry in a customer's rental history. The car fields are
// display values denormalised by the fleet API. Paid flips unpaid→paid
// through the payment operation and never flips back.
type Rental struct {
	RentalID    string  `json:"rentalId"`
	CarName     string  `json:"carName"`
	CarModel    string  `json:"carModel"`
	CarYear     int     `json:"carYear"`
	RentalDate  string  `json:"rentalDate"`
	ReturnDate  string  `json:"returnDate"`
	TotalDays   int     `json:"totalDay"`
	PricePerDay float64 `json:"pricePerDay"`
	TotalPrice  float64 `json:"totalPrice"`
	Paid        bool    `json:"paymentStatus"`
}

// RentalReceipt is returned by the fleet API when a rental is created.
type RentalReceipt struct {
	RentalID   string  `json:"rentalId"`
	Message    string  `json:"message"`
	TotalPrice float64 `json:"totalPrice"`
}

// PaymentConfirmation is the fleet API's acknowledgement of a payment.
type PaymentConfirmation struct {
	Message     string  `json:"message"`
	PaymentID   string  `json:"paymentId,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`
}

// PaymentMethod is one of the fixed payment options offered on the payment
// page.
type PaymentMethod struct {
	ID          string
	Name        string
	Description string
}

// PaymentMethods lists the accepted payment options in display order.
var PaymentMethods = []PaymentMethod{
	{ID: "credit_card", Name: "Credit Card", Description: "Visa, Mastercard, American Express"},
	{ID: "debit_card", Name: "Debit Card", Description: "Direct bank card payment"},
	{ID: "bank_transfer", Name: "Bank Transfer", Description: "Manual transfer via virtual account"},
	{ID: "e_wallet", Name: "E-Wallet", Description: "GoPay, OVO, Dana, ShopeePay"},
}

// ValidPaymentMethod reports whether id names one of PaymentMethods.
func ValidPaymentMethod(id string) bool {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return true
		}
	}
	return false
}
