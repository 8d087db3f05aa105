package pipeline

import "testing"

func TestParseDelimited(t *testing.T) {
	content := "brand_code,brand_name,country\nVG,VG,NO\n\n   \nAP,Aftenposten,NO\n"
	sheet := ParseDelimited(content, ',')

	if len(sheet.Headers) != 3 {
		t.Fatalf("headers=%d", len(sheet.Headers))
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows=%d", len(sheet.Rows))
	}
	if sheet.Rows[0].Num != 2 || sheet.Rows[1].Num != 3 {
		t.Fatalf("row numbers %d %d", sheet.Rows[0].Num, sheet.Rows[1].Num)
	}
	if sheet.Rows[1].Fields["brand_name"] != "Aftenposten" {
		t.Fatalf("brand_name=%q", sheet.Rows[1].Fields["brand_name"])
	}
}

func TestParseDelimitedQuotedFields(t *testing.T) {
	content := "brand_code,brand_name\nVG,\"Verdens Gang, AS\"\n"
	sheet := ParseDelimited(content, ',')

	if len(sheet.Rows) != 1 {
		t.Fatalf("rows=%d", len(sheet.Rows))
	}
	if got := sheet.Rows[0].Fields["brand_name"]; got != "Verdens Gang, AS" {
		t.Fatalf("brand_name=%q", got)
	}
}

func TestParseDelimitedShortAndLongRows(t *testing.T) {
	content := "a,b,c\n1,2\n1,2,3,4\n"
	sheet := ParseDelimited(content, ',')

	if got := sheet.Rows[0].Fields["c"]; got != "" {
		t.Fatalf("missing trailing field should be empty, got %q", got)
	}
	if got := sheet.Rows[1].Fields["c"]; got != "3" {
		t.Fatalf("c=%q", got)
	}
	if _, ok := sheet.Rows[1].Fields["4"]; ok {
		t.Fatalf("extra cell should be dropped")
	}
}

func TestParseDelimitedTrimsFields(t *testing.T) {
	content := "a , b\n 1 ,  x y \n"
	sheet := ParseDelimited(content, ',')

	if sheet.Headers[0] != "a" || sheet.Headers[1] != "b" {
		t.Fatalf("headers=%v", sheet.Headers)
	}
	if sheet.Rows[0].Fields["b"] != "x y" {
		t.Fatalf("b=%q", sheet.Rows[0].Fields["b"])
	}
}
