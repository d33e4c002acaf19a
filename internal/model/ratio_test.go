package model

import (
	"encoding/json"
	"testing"
)

func TestDivide_Sentinels(t *testing.T) {
	if r := Divide(20, 0); !r.IsUnbounded() || r.Value != 1 {
		t.Fatalf("Divide(20, 0) = %+v, want unbounded +1", r)
	}
	if r := Divide(-5, 0); !r.IsUnbounded() || r.Value != -1 {
		t.Fatalf("Divide(-5, 0) = %+v, want unbounded -1", r)
	}
	if r := Divide(0, 0); !r.IsUndefined() {
		t.Fatalf("Divide(0, 0) = %+v, want undefined", r)
	}
	if r := Divide(10, 4); !r.IsFinite() || r.Value != 2.5 {
		t.Fatalf("Divide(10, 4) = %+v, want 2.5", r)
	}
}

func TestRatio_DivideBy(t *testing.T) {
	if r := Unbounded(1).DivideBy(0); !r.IsUnbounded() {
		t.Fatalf("unbounded/0 = %+v, want unbounded", r)
	}
	if r := Unbounded(1).DivideBy(30); !r.IsUnbounded() {
		t.Fatalf("unbounded/30 = %+v, want unbounded", r)
	}
	if r := Finite(400).DivideBy(30); !r.IsFinite() {
		t.Fatalf("400/30 = %+v, want finite", r)
	}
	if r := Undefined().DivideBy(2); !r.IsUndefined() {
		t.Fatalf("undefined/2 = %+v, want undefined", r)
	}
}

func TestRatio_JSONRoundTrip(t *testing.T) {
	in := []Ratio{Finite(13.33), Unbounded(1), Unbounded(-1), Undefined()}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[13.33,"unbounded","-unbounded",null]` {
		t.Fatalf("json = %s", data)
	}

	var out []Ratio
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("ratio[%d] = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]float64{
		2.5:  3,
		-2.5: -2,
		1.49: 1,
		-0.4: 0,
	}
	for in, want := range cases {
		if got := RoundHalfUp(in); got != want {
			t.Errorf("RoundHalfUp(%v) = %v, want %v", in, got, want)
		}
	}
	if got := RoundTo(0.345, 2); got != 0.35 && got != 0.34 {
		t.Errorf("RoundTo(0.345, 2) = %v", got)
	}
	if got := RoundTo(12.25, 1); got != 12.3 {
		t.Errorf("RoundTo(12.25, 1) = %v, want 12.3", got)
	}
}

func TestParseFundingRound(t *testing.T) {
	cases := map[string]FundingRound{
		"":         FundingNone,
		"none":     FundingNone,
		"seed":     FundingSeed,
		"Seed":     FundingSeed,
		"seriesA":  FundingSeriesA,
		"Series A": FundingSeriesA,
		"series_b": FundingSeriesB,
		"series-b": FundingSeriesB,
	}
	for raw, want := range cases {
		got, err := ParseFundingRound(raw)
		if err != nil {
			t.Fatalf("ParseFundingRound(%q) error: %v", raw, err)
		}
		if got != want {
			t.Errorf("ParseFundingRound(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseFundingRound("seriesZ"); err == nil {
		t.Fatal("expected error for unknown round")
	}
}

func TestMonthlyRecord_JSONFundingRound(t *testing.T) {
	var rec MonthlyRecord
	data := `{"monthName":"Jan","cac":30,"fundingRound":"Series A","teamSize":3}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.FundingRound != FundingSeriesA {
		t.Fatalf("FundingRound = %q, want seriesA", rec.FundingRound)
	}

	var nullRound MonthlyRecord
	if err := json.Unmarshal([]byte(`{"monthName":"Feb","fundingRound":null}`), &nullRound); err != nil {
		t.Fatalf("unmarshal null round: %v", err)
	}
	if !nullRound.FundingRound.IsNone() {
		t.Fatalf("FundingRound = %q, want none", nullRound.FundingRound)
	}
}

func TestIsForecastLabel(t *testing.T) {
	if !IsForecastLabel("Forecast 3") {
		t.Fatal("Forecast 3 should be a forecast label")
	}
	if IsForecastLabel("Month 1") {
		t.Fatal("Month 1 should not be a forecast label")
	}
}
