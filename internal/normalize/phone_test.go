package normalize

import "testing"

func TestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare ten digits", in: "3015551212", want: "+13015551212"},
		{name: "formatted", in: "(301) 555-1212", want: "+13015551212"},
		{name: "dots and spaces", in: "301.555.1212 ", want: "+13015551212"},
		{name: "eleven digits leading one", in: "13015551212", want: "+13015551212"},
		{name: "already e164", in: "+13015551212", want: "+13015551212"},
		{name: "eleven digits not leading one", in: "23015551212", want: ""},
		{name: "too short", in: "555-1212", want: ""},
		{name: "too long", in: "+1301555121234", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "letters only", in: "call me", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Phone(tt.in); got != tt.want {
				t.Fatalf("Phone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhoneIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"3015551212", "(240) 555-0100", "12025550123"}
	for _, in := range inputs {
		once := Phone(in)
		if once == "" {
			t.Fatalf("Phone(%q) unexpectedly invalid", in)
		}
		if twice := Phone(once); twice != once {
			t.Fatalf("Phone(Phone(%q)) = %q, want %q", in, twice, once)
		}
	}
}
