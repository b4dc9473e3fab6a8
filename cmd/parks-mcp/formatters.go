package main

import (
	"strings"
	"time"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/models"
)

// Formatters shape upstream records into the normalized result payloads.
// The NPS API serializes totals, coordinates, costs and site counts as
// strings; everything numeric is coerced here, with null for absent or
// unparseable values. List formatters also apply the effective limit,
// since the upstream treats its limit parameter as advisory.

func formatParkList(list *models.ParkList, limit int) map[string]any {
	parks := list.Data
	if limit > 0 && len(parks) > limit {
		parks = parks[:limit]
	}
	items := make([]map[string]any, 0, len(parks))
	for _, park := range parks {
		items = append(items, map[string]any{
			"parkCode":    park.ParkCode,
			"name":        park.Name,
			"fullName":    park.FullName,
			"states":      common.SplitCSV(park.States),
			"designation": park.Designation,
			"description": park.Description,
			"url":         park.URL,
			"latitude":    common.ParseStringFloat(park.Latitude),
			"longitude":   common.ParseStringFloat(park.Longitude),
		})
	}
	return map[string]any{
		"total": common.ParseStringInt(list.Total),
		"limit": common.ParseStringInt(list.Limit),
		"start": common.ParseStringInt(list.Start),
		"parks": items,
	}
}

func formatPark(park models.Park) map[string]any {
	return map[string]any{
		"parkCode":    park.ParkCode,
		"name":        park.Name,
		"fullName":    park.FullName,
		"description": park.Description,
		"designation": park.Designation,
		"url":         park.URL,
		"states":      common.SplitCSV(park.States),
		"location": map[string]any{
			"latitude":  common.ParseStringFloat(park.Latitude),
			"longitude": common.ParseStringFloat(park.Longitude),
		},
		"weatherInfo":    park.WeatherInfo,
		"directionsInfo": park.DirectionsInfo,
		"directionsUrl":  park.DirectionsURL,
		"contacts":       formatContacts(park.Contacts),
		"entranceFees":   formatFees(park.EntranceFees),
		"operatingHours": formatHours(park.OperatingHours),
		"addresses":      formatAddresses(park.Addresses),
		"images":         formatImages(park.Images),
	}
}

func formatFees(fees []models.Fee) []map[string]any {
	items := make([]map[string]any, 0, len(fees))
	for _, fee := range fees {
		items = append(items, map[string]any{
			"cost":        common.ParseStringFloat(fee.Cost),
			"title":       fee.Title,
			"description": fee.Description,
		})
	}
	return items
}

func formatHours(hours []models.OperatingHours) []map[string]any {
	items := make([]map[string]any, 0, len(hours))
	for _, block := range hours {
		standard := block.StandardHours
		if standard == nil {
			standard = map[string]string{}
		}
		items = append(items, map[string]any{
			"name":          block.Name,
			"description":   block.Description,
			"standardHours": standard,
		})
	}
	return items
}

func formatAddresses(addresses []models.Address) []map[string]any {
	items := make([]map[string]any, 0, len(addresses))
	for _, address := range addresses {
		items = append(items, map[string]any{
			"line1":      address.Line1,
			"line2":      address.Line2,
			"line3":      address.Line3,
			"city":       address.City,
			"stateCode":  address.StateCode,
			"postalCode": address.PostalCode,
			"type":       address.Type,
		})
	}
	return items
}

func formatContacts(contacts models.Contacts) map[string]any {
	phones := make([]map[string]any, 0, len(contacts.PhoneNumbers))
	for _, phone := range contacts.PhoneNumbers {
		phones = append(phones, map[string]any{
			"phoneNumber": phone.PhoneNumber,
			"description": phone.Description,
			"extension":   phone.Extension,
			"type":        phone.Type,
		})
	}
	emails := make([]map[string]any, 0, len(contacts.EmailAddresses))
	for _, email := range contacts.EmailAddresses {
		emails = append(emails, map[string]any{
			"emailAddress": email.EmailAddress,
			"description":  email.Description,
		})
	}
	return map[string]any{
		"phoneNumbers":   phones,
		"emailAddresses": emails,
	}
}

func formatImages(images []models.Image) []map[string]any {
	items := make([]map[string]any, 0, len(images))
	for _, image := range images {
		items = append(items, map[string]any{
			"title":   image.Title,
			"url":     image.URL,
			"altText": image.AltText,
			"caption": image.Caption,
			"credit":  image.Credit,
		})
	}
	return items
}

func formatAlertList(list *models.AlertList, limit int) map[string]any {
	alerts := list.Data
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	items := make([]map[string]any, 0, len(alerts))
	for _, alert := range alerts {
		items = append(items, map[string]any{
			"id":              alert.ID,
			"title":           alert.Title,
			"description":     alert.Description,
			"category":        alert.Category,
			"parkCode":        alert.ParkCode,
			"url":             alert.URL,
			"lastIndexedDate": alert.LastIndexedDate,
		})
	}
	return map[string]any{
		"total":  common.ParseStringInt(list.Total),
		"limit":  common.ParseStringInt(list.Limit),
		"start":  common.ParseStringInt(list.Start),
		"alerts": items,
	}
}

func formatVisitorCenterList(list *models.VisitorCenterList, limit int) map[string]any {
	centers := list.Data
	if limit > 0 && len(centers) > limit {
		centers = centers[:limit]
	}
	items := make([]map[string]any, 0, len(centers))
	for _, center := range centers {
		items = append(items, map[string]any{
			"id":             center.ID,
			"name":           center.Name,
			"description":    center.Description,
			"parkCode":       center.ParkCode,
			"url":            center.URL,
			"directionsInfo": center.DirectionsInfo,
			"latitude":       common.ParseStringFloat(center.Latitude),
			"longitude":      common.ParseStringFloat(center.Longitude),
			"operatingHours": formatHours(center.OperatingHours),
		})
	}
	return map[string]any{
		"total":          common.ParseStringInt(list.Total),
		"limit":          common.ParseStringInt(list.Limit),
		"start":          common.ParseStringInt(list.Start),
		"visitorCenters": items,
	}
}

func formatCampgroundList(list *models.CampgroundList, limit int) map[string]any {
	campgrounds := list.Data
	if limit > 0 && len(campgrounds) > limit {
		campgrounds = campgrounds[:limit]
	}
	items := make([]map[string]any, 0, len(campgrounds))
	for _, campground := range campgrounds {
		items = append(items, map[string]any{
			"id":                       campground.ID,
			"name":                     campground.Name,
			"description":              campground.Description,
			"parkCode":                 campground.ParkCode,
			"url":                      campground.URL,
			"reservationInfo":          campground.ReservationInfo,
			"reservationUrl":           campground.ReservationURL,
			"totalSites":               common.ParseStringInt(campground.Campsites.TotalSites),
			"sitesReservable":          common.ParseStringInt(campground.NumberOfSitesReservable),
			"sitesFirstComeFirstServe": common.ParseStringInt(campground.NumberOfSitesFirstComeFirstServe),
			"fees":                     formatFees(campground.Fees),
			"operatingHours":           formatHours(campground.OperatingHours),
		})
	}
	return map[string]any{
		"total":       common.ParseStringInt(list.Total),
		"limit":       common.ParseStringInt(list.Limit),
		"start":       common.ParseStringInt(list.Start),
		"campgrounds": items,
	}
}

func formatEventList(list *models.EventList, limit int) map[string]any {
	events := list.Data
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	items := make([]map[string]any, 0, len(events))
	for _, event := range events {
		times := make([]map[string]any, 0, len(event.Times))
		for _, window := range event.Times {
			times = append(times, map[string]any{
				"timeStart": window.TimeStart,
				"timeEnd":   window.TimeEnd,
			})
		}
		items = append(items, map[string]any{
			"id":          event.ID,
			"title":       event.Title,
			"parkName":    event.ParkFullName,
			"siteCode":    event.SiteCode,
			"category":    event.Category,
			"description": event.Description,
			"dateStart":   event.DateStart,
			"dateEnd":     event.DateEnd,
			"times":       times,
			"location":    event.Location,
			"isFree":      strings.EqualFold(event.IsFree, "true"),
		})
	}
	return map[string]any{
		"total":  common.ParseStringInt(list.Total),
		"limit":  common.ParseStringInt(list.Limit),
		"start":  common.ParseStringInt(list.Start),
		"events": items,
	}
}

func formatPlaceList(places []models.Place) map[string]any {
	items := make([]map[string]any, 0, len(places))
	for _, place := range places {
		name := place.Name
		if name == "" {
			name = place.DisplayName
		}
		items = append(items, map[string]any{
			"name":        name,
			"displayName": place.DisplayName,
			"latitude":    common.ParseStringFloat(place.Lat),
			"longitude":   common.ParseStringFloat(place.Lon),
			"category":    place.Category,
			"type":        place.Type,
			"importance":  place.Importance,
			"boundingBox": place.BoundingBox,
			"address":     placeAddress(place),
		})
	}
	return map[string]any{
		"count":     len(items),
		"locations": items,
		"source":    map[string]any{"provider": "Nominatim"},
	}
}

func formatPlace(place *models.Place) map[string]any {
	return map[string]any{
		"placeId":     place.PlaceID,
		"displayName": place.DisplayName,
		"latitude":    common.ParseStringFloat(place.Lat),
		"longitude":   common.ParseStringFloat(place.Lon),
		"category":    place.Category,
		"type":        place.Type,
		"address":     placeAddress(*place),
		"source":      map[string]any{"provider": "Nominatim"},
	}
}

func placeAddress(place models.Place) map[string]string {
	if place.Address == nil {
		return map[string]string{}
	}
	return place.Address
}

// weatherUnits labels the measurement units OpenWeather reports for the
// requested units system.
func weatherUnits(units string) map[string]any {
	if units == "imperial" {
		return map[string]any{"temperature": "F", "windSpeed": "mph"}
	}
	return map[string]any{"temperature": "C", "windSpeed": "m/s"}
}

func formatOpenWeather(current *models.CurrentWeather, units string, latitude, longitude float64) map[string]any {
	var condition, description string
	if len(current.Weather) > 0 {
		condition = current.Weather[0].Main
		description = current.Weather[0].Description
	}
	var timestamp any
	if current.Dt > 0 {
		timestamp = time.Unix(current.Dt, 0).UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"location": map[string]any{"latitude": latitude, "longitude": longitude},
		"units":    weatherUnits(units),
		"current": map[string]any{
			"temperature":   current.Main.Temp,
			"feelsLike":     current.Main.FeelsLike,
			"humidity":      current.Main.Humidity,
			"pressure":      current.Main.Pressure,
			"windSpeed":     current.Wind.Speed,
			"windDirection": current.Wind.Deg,
			"condition":     condition,
			"description":   description,
			"timestamp":     timestamp,
		},
		"source": map[string]any{"provider": "OpenWeather", "fallback": false},
	}
}

// formatOpenMeteo normalizes the fallback provider. Open-Meteo reports
// its own unit labels; they are passed through with the requested system
// recorded under source.units. fallbackReason records why the primary
// provider was skipped.
func formatOpenMeteo(forecast *models.Forecast, units string, latitude, longitude float64, fallbackReason string) map[string]any {
	temperatureUnit := forecast.CurrentUnits.Temperature2M
	if temperatureUnit == "" {
		temperatureUnit = "C"
	}
	windUnit := forecast.CurrentUnits.WindSpeed10M
	if windUnit == "" {
		windUnit = "m/s"
	}
	source := map[string]any{
		"provider": "Open-Meteo",
		"fallback": true,
		"units":    units,
	}
	if fallbackReason != "" {
		source["fallbackReason"] = fallbackReason
	}
	return map[string]any{
		"location": map[string]any{"latitude": latitude, "longitude": longitude},
		"units": map[string]any{
			"temperature": temperatureUnit,
			"windSpeed":   windUnit,
		},
		"current": map[string]any{
			"temperature":   forecast.Current.Temperature2M,
			"feelsLike":     forecast.Current.ApparentTemp,
			"humidity":      forecast.Current.RelativeHumidity,
			"windSpeed":     forecast.Current.WindSpeed10M,
			"windDirection": forecast.Current.WindDirection10M,
			"conditionCode": forecast.Current.WeatherCode,
			"timestamp":     forecast.Current.Time,
		},
		"source": source,
	}
}

func formatAirQuality(quality *models.AirQuality, latitude, longitude float64) map[string]any {
	data := quality.Data
	return map[string]any{
		"location": map[string]any{
			"city":    data.City,
			"state":   data.State,
			"country": data.Country,
			"coordinates": map[string]any{
				"latitude":  latitude,
				"longitude": longitude,
			},
		},
		"current": map[string]any{
			"pollution": map[string]any{
				"timestamp": data.Current.Pollution.Ts,
				"aqius":     data.Current.Pollution.AQIUS,
				"mainus":    data.Current.Pollution.MainUS,
				"aqicn":     data.Current.Pollution.AQICN,
				"maincn":    data.Current.Pollution.MainCN,
			},
			"weather": map[string]any{
				"timestamp":     data.Current.Weather.Ts,
				"temperature":   data.Current.Weather.Tp,
				"pressure":      data.Current.Weather.Pr,
				"humidity":      data.Current.Weather.Hu,
				"windSpeed":     data.Current.Weather.Ws,
				"windDirection": data.Current.Weather.Wd,
				"icon":          data.Current.Weather.Ic,
			},
		},
		"source": map[string]any{"provider": "AirVisual"},
	}
}
