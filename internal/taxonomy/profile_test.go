package taxonomy

import "testing"

func TestDetectProfile(t *testing.T) {
	p, err := DetectProfile([]string{"brand_code", "brand_name", "country"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if p.Name != "nova" {
		t.Fatalf("profile=%s", p.Name)
	}

	p, err = DetectProfile([]string{"Brand Prefix", "Brandname", "Country"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if p.Name != "codex" {
		t.Fatalf("profile=%s", p.Name)
	}

	if _, err := DetectProfile([]string{"foo", "bar"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProfileByName(t *testing.T) {
	for _, name := range []string{"nova", "codex"} {
		p, err := ProfileByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name != name {
			t.Fatalf("got %s", p.Name)
		}
	}
	if _, err := ProfileByName("legacy"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProfileRequired(t *testing.T) {
	required := NovaProfile.Required()
	if len(required) != 5 {
		t.Fatalf("required=%v", required)
	}
	for _, col := range []string{"brand_code", "brand_name", "country", "product_name", "product_type"} {
		found := false
		for _, r := range required {
			if r == col {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%s not required", col)
		}
	}
}
