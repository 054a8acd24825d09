package normalize

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Dr. A. B. Sharma", "ABSHARMA"},
		{"dr sharma", "SHARMA"},
		{"Mrs. Leela Devi (Sr.)", "LEELADEVISR"},
		{"  SHARMA  ", "SHARMA"},
		{"", ""},
		{"Mr Ajay  Kumar", "AJAYKUMAR"},
	}
	for _, c := range cases {
		if got := Key(c.in); got != c.want {
			t.Errorf("Key(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"Dr. A. B. Sharma", "SHARMA", "Mr Ajay Kumar", "A(B)C"}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent: Key(%q)=%q but Key(Key(...))=%q", in, once, twice)
		}
	}
}

func TestAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,234.50", "1234.5", true},
		{"(500)", "500", true},
		{"  42 ", "42", true},
		{"n/a", "0", false},
		{"", "0", false},
	}
	for _, c := range cases {
		got, ok := Amount(c.in)
		if ok != c.ok {
			t.Errorf("Amount(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if got.String() != c.want {
			t.Errorf("Amount(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"05/03/2024", "2024-03-05"},
		{"5/3/2024", "2024-03-05"},
		{"05-03-2024", "2024-03-05"},
		{"31/12/2023 14:05:00", "2023-12-31"},
		{"2024-03-05", "2024-03-05"},
		{"not a date", ""},
		{"", ""},
	}
	for _, c := range cases {
		got := ParseDate(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil", c.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %s", c.in, c.want)
			continue
		}
		if got.Format("2006-01-02") != c.want {
			t.Errorf("ParseDate(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestExtractDate(t *testing.T) {
	got := ExtractDate("Admission Date : 05/03/2024")
	if got == nil || !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ExtractDate = %v, want 2024-03-05", got)
	}
	if ExtractDate("Admission Date : pending") != nil {
		t.Error("expected nil for text without a date token")
	}
}

func TestCreditCompany(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Credit Company : Star Health", "STAR HEALTH"},
		{"Credit Company :   ", "NOT FOUND"},
		{"no separator here", "NOT FOUND"},
	}
	for _, c := range cases {
		if got := CreditCompany(c.in, "NOT FOUND"); got != c.want {
			t.Errorf("CreditCompany(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOPCreditCompany(t *testing.T) {
	if got := OPCreditCompany("Credit Company:- 12 Star Health"); got != "STAR HEALTH" {
		t.Errorf("got %q", got)
	}
	if got := OPCreditCompany("Star Health"); got != "STAR HEALTH" {
		t.Errorf("got %q", got)
	}
}

func TestBandOf(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"17.9", BandUnder18},
		{"18", BandUnder65},
		{"64.9", BandUnder65},
		{"65", Band65Plus},
		{"abc", BandUnknown},
		{"", BandUnknown},
	}
	for _, c := range cases {
		if got := BandOf(c.in); got != c.want {
			t.Errorf("BandOf(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAge(t *testing.T) {
	if n, ok := Age("62 Yrs"); !ok || n != 62 {
		t.Errorf("Age(\"62 Yrs\") = %d, %v", n, ok)
	}
	if _, ok := Age("unknown"); ok {
		t.Error("expected ok=false for non-numeric age")
	}
}
