package http

import (
	"net/http"

	"hospitalpulse/internal/middleware"
)

// CityParam is the repeated query parameter carrying the city selection
const CityParam = "city"

// CitySelection is the validated city filter of a request
type CitySelection struct {
	Cities []string `json:"cities" validate:"max=256,dive,max=256,printable"`
}

// parseSelection reads ?city=A&city=B. No parameter means no filter.
func parseSelection(r *http.Request, v *middleware.Validator) ([]string, error) {
	sel := CitySelection{Cities: r.URL.Query()[CityParam]}
	if err := v.ValidateStruct(sel); err != nil {
		return nil, err
	}
	return sel.Cities, nil
}
