package models

// CurrentWeather is the OpenWeather /weather response.
type CurrentWeather struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []WeatherCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

// WeatherCondition is one entry of the OpenWeather conditions array.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Forecast is the Open-Meteo /forecast response, current weather variables only.
type Forecast struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	CurrentUnits struct {
		Time             string `json:"time"`
		Temperature2M    string `json:"temperature_2m"`
		RelativeHumidity string `json:"relative_humidity_2m"`
		ApparentTemp     string `json:"apparent_temperature"`
		WindSpeed10M     string `json:"wind_speed_10m"`
		WindDirection10M string `json:"wind_direction_10m"`
	} `json:"current_units"`
	Current struct {
		Time             string  `json:"time"`
		Interval         int     `json:"interval"`
		Temperature2M    float64 `json:"temperature_2m"`
		RelativeHumidity int     `json:"relative_humidity_2m"`
		ApparentTemp     float64 `json:"apparent_temperature"`
		WindSpeed10M     float64 `json:"wind_speed_10m"`
		WindDirection10M float64 `json:"wind_direction_10m"`
		WeatherCode      int     `json:"weather_code"`
	} `json:"current"`
}

// AirQuality is the AirVisual /nearest_city response. Status is "success"
// or "fail"; on failure Data.Message carries the upstream reason.
type AirQuality struct {
	Status string `json:"status"`
	Data   struct {
		City     string `json:"city"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Location struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"location"`
		Current struct {
			Pollution struct {
				Ts     string `json:"ts"`
				AQIUS  int    `json:"aqius"`
				MainUS string `json:"mainus"`
				AQICN  int    `json:"aqicn"`
				MainCN string `json:"maincn"`
			} `json:"pollution"`
			Weather struct {
				Ts string  `json:"ts"`
				Tp int     `json:"tp"`
				Pr int     `json:"pr"`
				Hu int     `json:"hu"`
				Ws float64 `json:"ws"`
				Wd float64 `json:"wd"`
				Ic string  `json:"ic"`
			} `json:"weather"`
		} `json:"current"`
		Message string `json:"message"`
	} `json:"data"`
}
