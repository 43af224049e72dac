package phone

import "testing"

func TestNormalize_AcceptedForms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"+254712345678":  "254712345678",
		"254712345678":   "254712345678",
		"0712345678":     "254712345678",
		"712345678":      "254712345678",
		"0712 345 678":   "254712345678",
		"+254-712345678": "254712345678",
		"0110123456":     "254110123456",
	}

	for raw, want := range cases {
		got, err := Normalize(raw)
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"+254712345678", "0712345678", "712345678", "254110123456"}
	for _, raw := range inputs {
		once, err := Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestNormalize_Rejects(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"12345",
		"25471234567",    // too short
		"2547123456789",  // too long
		"254812345678",   // non-mobile prefix
		"0812345678",     // non-mobile prefix
		"07123456ab",     // letters
		"+1 555 123 456", // wrong country
	}

	for _, raw := range invalid {
		if _, err := Normalize(raw); err == nil {
			t.Errorf("Normalize(%q): expected error, got none", raw)
		}
		if IsValid(raw) {
			t.Errorf("IsValid(%q) = true, want false", raw)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	if msg := ValidationError("", true); msg == "" {
		t.Error("expected message for required empty number")
	}
	if msg := ValidationError("", false); msg != "" {
		t.Errorf("expected no message for optional empty number, got %q", msg)
	}
	if msg := ValidationError("12345", true); msg == "" {
		t.Error("expected message for malformed number")
	}
	if msg := ValidationError("0712345678", true); msg != "" {
		t.Errorf("expected no message for valid number, got %q", msg)
	}
}
