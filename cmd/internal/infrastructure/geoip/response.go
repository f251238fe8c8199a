package geoip

import "strings"

// lookupResponse matches ip-api.com style bodies. Providers that only
// return a country field are accepted too.
type lookupResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryName string `json:"country_name"`
}

func (r *lookupResponse) failed() bool {
	return r.Status != "" && !strings.EqualFold(r.Status, "success")
}

func (r *lookupResponse) country() string {
	if name := strings.TrimSpace(r.CountryName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Country)
}
