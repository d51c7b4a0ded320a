package models

import "testing"

func TestParseRideStatus(t *testing.T) {
	for _, v := range []string{"Pending", "In Progress", "Completed", "Canceled"} {
		if _, err := ParseRideStatus(v); err != nil {
			t.Errorf("ParseRideStatus(%q): %v", v, err)
		}
	}
	for _, v := range []string{"", "pending", "Done", "IN PROGRESS"} {
		if _, err := ParseRideStatus(v); err == nil {
			t.Errorf("ParseRideStatus(%q) accepted", v)
		}
	}
}

func TestParseRiderStatus(t *testing.T) {
	for _, v := range []string{"Available", "Busy"} {
		if _, err := ParseRiderStatus(v); err != nil {
			t.Errorf("ParseRiderStatus(%q): %v", v, err)
		}
	}
	if _, err := ParseRiderStatus("Offline"); err == nil {
		t.Error("ParseRiderStatus accepted Offline")
	}
}

func TestParseLicensePlate(t *testing.T) {
	for _, v := range []string{"ABC-1234", "51F12345", "AB-CD-12"} {
		if _, err := ParseLicensePlate(v); err != nil {
			t.Errorf("ParseLicensePlate(%q): %v", v, err)
		}
	}
	for _, v := range []string{"abc-1234", "AB12", "ABCDEFGHIJK", "AB 1234", ""} {
		if _, err := ParseLicensePlate(v); err == nil {
			t.Errorf("ParseLicensePlate(%q) accepted", v)
		}
	}
}

func TestParsePhoneNumber(t *testing.T) {
	for _, v := range []string{"+84901234567", "0901234567", "123456789012345"} {
		if _, err := ParsePhoneNumber(v); err != nil {
			t.Errorf("ParsePhoneNumber(%q): %v", v, err)
		}
	}
	for _, v := range []string{"123456789", "+",  "abc1234567", "+1234567890123456"} {
		if _, err := ParsePhoneNumber(v); err == nil {
			t.Errorf("ParsePhoneNumber(%q) accepted", v)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		3.14159: 3.14,
		1.239:   1.24,
		4.0:     4.0,
		0:       0,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
