// Package models defines the upstream API payload shapes the clients decode.
// The NPS API serializes most numerics (totals, coordinates, fees, site
// counts) as strings; coercion happens in the formatters, never here.
package models

// ParkList is the NPS collection envelope for /parks.
type ParkList struct {
	Total string `json:"total"`
	Limit string `json:"limit"`
	Start string `json:"start"`
	Data  []Park `json:"data"`
}

// Park is one record from the /parks endpoint. Fields are optional upstream;
// absent values decode to zero values and are null-filled downstream.
type Park struct {
	ID             string           `json:"id"`
	URL            string           `json:"url"`
	FullName       string           `json:"fullName"`
	ParkCode       string           `json:"parkCode"`
	Description    string           `json:"description"`
	Latitude       string           `json:"latitude"`
	Longitude      string           `json:"longitude"`
	LatLong        string           `json:"latLong"`
	Activities     []Activity       `json:"activities"`
	Topics         []Topic          `json:"topics"`
	States         string           `json:"states"`
	Contacts       Contacts         `json:"contacts"`
	EntranceFees   []Fee            `json:"entranceFees"`
	EntrancePasses []Fee            `json:"entrancePasses"`
	OperatingHours []OperatingHours `json:"operatingHours"`
	Addresses      []Address        `json:"addresses"`
	Images         []Image          `json:"images"`
	WeatherInfo    string           `json:"weatherInfo"`
	Name           string           `json:"name"`
	Designation    string           `json:"designation"`
	DirectionsInfo string           `json:"directionsInfo"`
	DirectionsURL  string           `json:"directionsUrl"`
}

// Activity is a park activity reference ({id, name}).
type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Topic is a park topic reference ({id, name}).
type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fee covers both entranceFees and entrancePasses entries. Cost is a
// string-typed decimal ("35.00").
type Fee struct {
	Cost        string `json:"cost"`
	Description string `json:"description"`
	Title       string `json:"title"`
}

// OperatingHours describes one operating schedule block.
type OperatingHours struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	StandardHours map[string]string `json:"standardHours"`
}

// Address is a physical or mailing address record.
type Address struct {
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	StateCode  string `json:"stateCode"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Line3      string `json:"line3"`
	Type       string `json:"type"`
}

// Contacts groups phone and email contact records.
type Contacts struct {
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
}

// PhoneNumber is one phone contact entry.
type PhoneNumber struct {
	PhoneNumber string `json:"phoneNumber"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	Type        string `json:"type"`
}

// EmailAddress is one email contact entry.
type EmailAddress struct {
	EmailAddress string `json:"emailAddress"`
	Description  string `json:"description"`
}

// Image is a park media record.
type Image struct {
	Credit  string `json:"credit"`
	Title   string `json:"title"`
	AltText string `json:"altText"`
	Caption string `json:"caption"`
	URL     string `json:"url"`
}

// AlertList is the NPS collection envelope for /alerts.
type AlertList struct {
	Total string  `json:"total"`
	Limit string  `json:"limit"`
	Start string  `json:"start"`
	Data  []Alert `json:"data"`
}

// Alert is one record from the /alerts endpoint.
type Alert struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	ParkCode        string `json:"parkCode"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	LastIndexedDate string `json:"lastIndexedDate"`
}

// VisitorCenterList is the NPS collection envelope for /visitorcenters.
type VisitorCenterList struct {
	Total string          `json:"total"`
	Limit string          `json:"limit"`
	Start string          `json:"start"`
	Data  []VisitorCenter `json:"data"`
}

// VisitorCenter is one record from the /visitorcenters endpoint.
type VisitorCenter struct {
	ID             string           `json:"id"`
	URL            string           `json:"url"`
	Name           string           `json:"name"`
	ParkCode       string           `json:"parkCode"`
	Description    string           `json:"description"`
	Latitude       string           `json:"latitude"`
	Longitude      string           `json:"longitude"`
	DirectionsInfo string           `json:"directionsInfo"`
	OperatingHours []OperatingHours `json:"operatingHours"`
	Addresses      []Address        `json:"addresses"`
	Contacts       Contacts         `json:"contacts"`
}

// CampgroundList is the NPS collection envelope for /campgrounds.
type CampgroundList struct {
	Total string       `json:"total"`
	Limit string       `json:"limit"`
	Start string       `json:"start"`
	Data  []Campground `json:"data"`
}

// Campground is one record from the /campgrounds endpoint. Site counts
// are string-typed ("432").
type Campground struct {
	ID                               string           `json:"id"`
	URL                              string           `json:"url"`
	Name                             string           `json:"name"`
	ParkCode                         string           `json:"parkCode"`
	Description                      string           `json:"description"`
	Latitude                         string           `json:"latitude"`
	Longitude                        string           `json:"longitude"`
	ReservationInfo                  string           `json:"reservationInfo"`
	ReservationURL                   string           `json:"reservationUrl"`
	Fees                             []Fee            `json:"fees"`
	NumberOfSitesReservable          string           `json:"numberOfSitesReservable"`
	NumberOfSitesFirstComeFirstServe string           `json:"numberOfSitesFirstComeFirstServe"`
	Campsites                        Campsites        `json:"campsites"`
	OperatingHours                   []OperatingHours `json:"operatingHours"`
}

// Campsites summarizes site counts for a campground.
type Campsites struct {
	TotalSites        string `json:"totalSites"`
	TentOnly          string `json:"tentOnly"`
	ElectricalHookups string `json:"electricalHookups"`
	RVOnly            string `json:"rvOnly"`
	WalkBoatTo        string `json:"walkBoatTo"`
	Group             string `json:"group"`
}

// EventList is the NPS collection envelope for /events.
type EventList struct {
	Total string  `json:"total"`
	Limit string  `json:"limit"`
	Start string  `json:"start"`
	Data  []Event `json:"data"`
}

// Event is one record from the /events endpoint. This endpoint lowercases
// its field names and serializes booleans as strings ("true"/"false").
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ParkFullName string      `json:"parkfullname"`
	Description  string      `json:"description"`
	DateStart    string      `json:"datestart"`
	DateEnd      string      `json:"dateend"`
	Times        []EventTime `json:"times"`
	Location     string      `json:"location"`
	FeeInfo      string      `json:"feeinfo"`
	IsFree       string      `json:"isfree"`
	Category     string      `json:"category"`
	SiteCode     string      `json:"sitecode"`
	InfoURL      string      `json:"infourl"`
}

// EventTime is one scheduled time window for an event.
type EventTime struct {
	TimeStart string `json:"timestart"`
	TimeEnd   string `json:"timeend"`
}
