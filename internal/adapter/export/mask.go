package export

import "strings"

// MaskCNIC keeps the first five and the last digit of a national identity
// number. Values shorter than five characters are hidden entirely.
func MaskCNIC(cnic string) string {
	if len(cnic) < 5 {
		return "****"
	}
	return cnic[:5] + "-" + strings.Repeat("X", 7) + "-" + cnic[len(cnic)-1:]
}
