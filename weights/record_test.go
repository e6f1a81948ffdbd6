package weights

import (
	"strings"
	"testing"
)

func TestReadTabDelimited(t *testing.T) {
	in := "CHROM\tPOS\tALLELE\tBETA\n1\t100\tA\t0.5\n2\t200\tG\t-0.2\n"

	records, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("CHROM", "") != "1" ||
		records[0].Get("ALLELE", "") != "A" ||
		records[0].Get("BETA", "") != "0.5" {
		t.Errorf("unexpected first record: %v", records[0])
	}
}

func TestReadCommaDelimited(t *testing.T) {
	in := "CHROM,POS,ALLELE,ODDSRATIO\n1,100,A,2.0\n"

	records, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Get("ODDSRATIO", "") != "2.0" {
		t.Errorf("unexpected record: %v", records[0])
	}
}

func TestReadSkipsComments(t *testing.T) {
	in := "# generated by somesuch\nCHROM\tPOS\tALLELE\tBETA\n1\t100\tA\t0.5\n"

	records, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestReadJaggedRow(t *testing.T) {
	in := "CHROM\tPOS\tALLELE\tBETA\n1\t100\tA\n"

	records, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := records[0].Get("BETA", "fallback"); got != "fallback" {
		t.Errorf("expected default for missing field, got %q", got)
	}
}

func TestGetDefaultOnEmpty(t *testing.T) {
	r := Record{"BETA": ""}
	if got := r.Get("BETA", "0"); got != "0" {
		t.Errorf("empty field should fall back to default, got %q", got)
	}
}

func TestReadPGSCatalog(t *testing.T) {
	in := "# PGS Catalog scoring file\n" +
		"rsID\tchr_name\tchr_position\teffect_allele\teffect_weight\n" +
		"rs123\t1\t100\tA\t0.5\n" +
		"rs456\t2\t200\tG\t-0.2\n"

	records, err := ReadPGSCatalog(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.Get("RSID", "") != "rs123" ||
		first.Get("CHROM", "") != "1" ||
		first.Get("POS", "") != "100" ||
		first.Get("ALLELE", "") != "A" ||
		first.Get("BETA", "") != "0.5" {
		t.Errorf("unexpected canonical record: %v", first)
	}
}
