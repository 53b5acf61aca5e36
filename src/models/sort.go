package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	allDigits = regexp.MustCompile(`^\d+$`)
	nonDigits = regexp.MustCompile(`\D+`)
)

// newNameComparator builds the device-name comparator: names that are
// pure digit strings compare as integers, everything else falls back to a
// numeric-aware, case-insensitive collation. Collators are not safe for
// concurrent use, so each sort gets its own.
func newNameComparator() func(a, b string) int {
	col := collate.New(language.Und, collate.Numeric, collate.Loose)
	return func(a, b string) int {
		ax := strings.TrimSpace(a)
		bx := strings.TrimSpace(b)
		if allDigits.MatchString(ax) && allDigits.MatchString(bx) {
			an, aerr := strconv.Atoi(ax)
			bn, berr := strconv.Atoi(bx)
			if aerr == nil && berr == nil {
				return an - bn
			}
		}
		return col.CompareString(ax, bx)
	}
}

// minPhoneKey returns the device's smallest normalized phone digit-string
// under the (length, lexicographic) order, or "" when the device has no
// number with any digits.
func minPhoneKey(d *Device) string {
	min := ""
	for _, n := range d.Numbers {
		digits := nonDigits.ReplaceAllString(n.Phone, "")
		if digits == "" {
			continue
		}
		if min == "" || lessDigitString(digits, min) {
			min = digits
		}
	}
	return min
}

func lessDigitString(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// sortDevices orders the list in place. Order "number" sorts by each
// device's smallest phone digit-string (devices without one sort last);
// anything else sorts by name. Name comparison breaks "number" ties.
func sortDevices(devices []Device, order string) {
	cmpName := newNameComparator()

	if order == "number" {
		sort.SliceStable(devices, func(i, j int) bool {
			a := minPhoneKey(&devices[i])
			b := minPhoneKey(&devices[j])
			switch {
			case a != "" && b != "":
				if a != b {
					return lessDigitString(a, b)
				}
			case a != "":
				return true
			case b != "":
				return false
			}
			return cmpName(devices[i].Name, devices[j].Name) < 0
		})
		return
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return cmpName(devices[i].Name, devices[j].Name) < 0
	})
}
