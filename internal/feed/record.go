// internal/feed/record.go
//
// Raw feed row.
//
// Context:
//   - One Record per data row, one string field per feed column.  The
//     scanner assigns cells by header name, so column order and count
//     in the file are irrelevant; a header the map does not know is
//     ignored, and a column the file lacks stays "".
//
// Notes:
//   - Oxford commas, two spaces after periods.

package feed

import "strings"

// Record is one raw row of the partner inventory file.  Every value is
// the untrimmed cell text; typing happens in the mapper.
type Record struct {
	VIN           string
	Year          string
	Make          string
	Model         string
	Trim          string
	Price         string
	Miles         string
	Condition     string
	BodyStyle     string
	ImageURLs     string
	Transmission  string
	FuelType      string
	Drive         string
	ExteriorColor string
	InteriorColor string
	Doors         string
	Cylinders     string
	Description   string
	Options       string
	DealerID      string
	DealerName    string
	Address       string
	City          string
	State         string
	Zip           string
	URL           string
	Certified     string
	Latitude      string
	Longitude     string
	DMA           string
	Radius        string
	Payout        string
	Priority      string
	DOL           string
}

// columnSetters keys the Record fields by normalized header cell.
var columnSetters = map[string]func(*Record, string){
	"vin":           func(r *Record, v string) { r.VIN = v },
	"year":          func(r *Record, v string) { r.Year = v },
	"make":          func(r *Record, v string) { r.Make = v },
	"model":         func(r *Record, v string) { r.Model = v },
	"trim":          func(r *Record, v string) { r.Trim = v },
	"price":         func(r *Record, v string) { r.Price = v },
	"miles":         func(r *Record, v string) { r.Miles = v },
	"condition":     func(r *Record, v string) { r.Condition = v },
	"bodystyle":     func(r *Record, v string) { r.BodyStyle = v },
	"imageurls":     func(r *Record, v string) { r.ImageURLs = v },
	"transmission":  func(r *Record, v string) { r.Transmission = v },
	"fueltype":      func(r *Record, v string) { r.FuelType = v },
	"drive":         func(r *Record, v string) { r.Drive = v },
	"exteriorcolor": func(r *Record, v string) { r.ExteriorColor = v },
	"interiorcolor": func(r *Record, v string) { r.InteriorColor = v },
	"doors":         func(r *Record, v string) { r.Doors = v },
	"cylinders":     func(r *Record, v string) { r.Cylinders = v },
	"description":   func(r *Record, v string) { r.Description = v },
	"options":       func(r *Record, v string) { r.Options = v },
	"dealerid":      func(r *Record, v string) { r.DealerID = v },
	"dealername":    func(r *Record, v string) { r.DealerName = v },
	"address":       func(r *Record, v string) { r.Address = v },
	"city":          func(r *Record, v string) { r.City = v },
	"state":         func(r *Record, v string) { r.State = v },
	"zip":           func(r *Record, v string) { r.Zip = v },
	"url":           func(r *Record, v string) { r.URL = v },
	"certified":     func(r *Record, v string) { r.Certified = v },
	"latitude":      func(r *Record, v string) { r.Latitude = v },
	"longitude":     func(r *Record, v string) { r.Longitude = v },
	"dma":           func(r *Record, v string) { r.DMA = v },
	"radius":        func(r *Record, v string) { r.Radius = v },
	"payout":        func(r *Record, v string) { r.Payout = v },
	"priority":      func(r *Record, v string) { r.Priority = v },
	"dol":           func(r *Record, v string) { r.DOL = v },
}

// normalizeHeader lowercases a header cell and strips space and the
// UTF-8 BOM some exports carry on the first column.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}
