// Package report turns fetched payment data into outstanding-payment
// reports and writes them as Excel workbooks.
package report

import "strings"

// TitleFilter holds zero or more filter terms. A payment title matches only
// when it contains every term as a case-insensitive substring; an empty
// filter matches everything.
type TitleFilter []string

// Matches reports whether the title satisfies all filter terms
func (f TitleFilter) Matches(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range f {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Empty reports whether no filter terms are set
func (f TitleFilter) Empty() bool {
	return len(f) == 0
}

func (f TitleFilter) String() string {
	return strings.Join(f, " AND ")
}
