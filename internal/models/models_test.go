package models

import "testing"

func TestValidation(t *testing.T) {
	for _, y := range []string{"2018", "2023"} {
		if !ValidYear(y) {
			t.Errorf("%s should be valid", y)
		}
	}
	for _, y := range []string{"2017", "2024", ""} {
		if ValidYear(y) {
			t.Errorf("%q should be invalid", y)
		}
	}
	for _, p := range []string{"NO2", "pm10", " PM2.5 "} {
		if !ValidPollutant(p) {
			t.Errorf("%q should be valid", p)
		}
	}
	if ValidPollutant("so2") {
		t.Error("so2 should be invalid")
	}
}

func TestDatasetAppend(t *testing.T) {
	ds := NewDataset("PM10", "2019")
	if ds.Pollutant != "pm10" {
		t.Errorf("expected canonical pollutant, got %q", ds.Pollutant)
	}
	ds.Append(DataPoint{GridCode: 1, Value: 2})
	ds.Append(DataPoint{GridCode: 2, Value: 3})
	if len(ds.Points) != 2 || ds.Points[1].GridCode != 2 {
		t.Errorf("append order lost: %+v", ds.Points)
	}
}
