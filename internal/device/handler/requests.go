package handler

import "helpapp/pkg/validation"

type PermissionsRequest struct {
	Location *bool `json:"location" validate:"required"`
	SMS      *bool `json:"sms" validate:"required"`
}

func (r *PermissionsRequest) Validate() error { return validation.Validate(r) }

type ProvidersRequest struct {
	GPS     *bool `json:"gps" validate:"required"`
	Network *bool `json:"network" validate:"required"`
}

func (r *ProvidersRequest) Validate() error { return validation.Validate(r) }

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

func (r *LocationRequest) Validate() error { return validation.Validate(r) }
