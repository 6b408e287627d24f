package dataset

// Column names of the FIPE listing table.
const (
	ColBrand          = "brand"
	ColModel          = "model"
	ColFuel           = "fuel"
	ColGear           = "gear"
	ColEngineSize     = "engine_size"
	ColMonth          = "month_of_reference"
	ColPrice          = "avg_price_brl"
	ColFipeCode       = "fipe_code"
	ColAuthentication = "authentication"
)

// Months lists the reference-month labels in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex returns the zero-based calendar position of label.
func MonthIndex(label string) (int, bool) {
	for i, m := range Months {
		if m == label {
			return i, true
		}
	}
	return 0, false
}
