package domain

type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "upi"
	PaymentCard       PaymentMethod = "card"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentEMI        PaymentMethod = "emi"
)

// PaymentSelection is a tagged variant: Method names the active branch and
// only that branch's details are meaningful.
type PaymentSelection struct {
	Method     PaymentMethod
	UPI        UPIDetails
	Card       CardDetails
	NetBanking NetBankingDetails
	EMI        EMIDetails
}

type UPIDetails struct {
	UPIID string
}

type CardDetails struct {
	Number     string
	Expiry     string
	CVV        string
	NameOnCard string
}

type NetBankingDetails struct {
	Bank string
}

type EMIDetails struct {
	TermMonths int
}

// QualifiesForUPIDiscount reports whether the selection earns the UPI
// incentive: paying via UPI with a UPI ID actually entered. Selecting the
// UPI tab without an ID does not qualify.
func (p PaymentSelection) QualifiesForUPIDiscount() bool {
	return p.Method == PaymentUPI && p.UPI.UPIID != ""
}
