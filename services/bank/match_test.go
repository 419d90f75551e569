package bank

import "testing"

func TestMatchName(t *testing.T) {
	testCases := []struct {
		name           string
		accountName    string
		registeredName string
		want           MatchStrength
	}{
		{
			name:           "exact match",
			accountName:    "Ada Obi",
			registeredName: "Ada Obi",
			want:           MatchStrict,
		},
		{
			name:           "reordered tokens",
			accountName:    "OBI ADA",
			registeredName: "Ada Obi",
			want:           MatchStrict,
		},
		{
			name:           "extra middle name on the bank record",
			accountName:    "Ada Chiamaka Obi",
			registeredName: "Ada Obi",
			want:           MatchStrict,
		},
		{
			name:           "extra middle name on the registered record",
			accountName:    "Ada Obi",
			registeredName: "Ada Chiamaka Obi",
			want:           MatchStrict,
		},
		{
			name:           "one shared surname out of two tokens",
			accountName:    "Ngozi Obi",
			registeredName: "Ada Obi",
			want:           MatchLoose,
		},
		{
			name:           "unrelated names",
			accountName:    "Tunde Bakare",
			registeredName: "Ada Obi",
			want:           MatchNone,
		},
		{
			name:           "empty account name",
			accountName:    "",
			registeredName: "Ada Obi",
			want:           MatchNone,
		},
		{
			name:           "punctuation and casing ignored",
			accountName:    "OBI, ada-chiamaka",
			registeredName: "Ada Chiamaka Obi",
			want:           MatchStrict,
		},
		{
			name:           "initials do not count as matches",
			accountName:    "A C Obi",
			registeredName: "Ada Chiamaka Obi",
			want:           MatchStrict,
		},
		{
			name:           "name of only initials has nothing to compare",
			accountName:    "A C O",
			registeredName: "Ada Chiamaka Obi",
			want:           MatchNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchName(tc.accountName, tc.registeredName); got != tc.want {
				t.Errorf("MatchName(%q, %q) = %v, want %v", tc.accountName, tc.registeredName, got, tc.want)
			}
		})
	}
}
