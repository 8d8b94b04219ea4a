package validator_test

import (
	"strings"
	"testing"

	"mesa/shared/validator"
)

type reservationRequest struct {
	Phone     string `json:"phone"      validate:"required,min=8,max=20"`
	PartySize int    `json:"party_size" validate:"required,gte=1"`
	Area      string `json:"area"       validate:"omitempty,oneof=salon_principal terraza salon_privado barra"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid body",
			body:    `{"phone": "+34600111222", "party_size": 4, "area": "terraza"}`,
			wantErr: false,
		},
		{
			name:    "valid body without optional area",
			body:    `{"phone": "+34600111222", "party_size": 2}`,
			wantErr: false,
		},
		{
			name:    "malformed json",
			body:    `{"phone": `,
			wantErr: true,
		},
		{
			name:    "missing phone",
			body:    `{"party_size": 4}`,
			wantErr: true,
		},
		{
			name:    "party size below minimum",
			body:    `{"phone": "+34600111222", "party_size": 0}`,
			wantErr: true,
		},
		{
			name:    "unknown area",
			body:    `{"phone": "+34600111222", "party_size": 4, "area": "azotea"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data reservationRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    reservationRequest
		wantErr bool
	}{
		{
			name:    "valid struct",
			data:    reservationRequest{Phone: "+34600111222", PartySize: 4, Area: "salon_principal"},
			wantErr: false,
		},
		{
			name:    "phone too short",
			data:    reservationRequest{Phone: "1234", PartySize: 4},
			wantErr: true,
		},
		{
			name:    "missing party size",
			data:    reservationRequest{Phone: "+34600111222"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{
			name:    "valid phone",
			field:   "+34600111222",
			tag:     "required,min=8,max=20",
			wantErr: false,
		},
		{
			name:    "empty required field",
			field:   "",
			tag:     "required",
			wantErr: true,
		},
		{
			name:    "numeric string",
			field:   "4",
			tag:     "numeric",
			wantErr: false,
		},
		{
			name:    "non-numeric string",
			field:   "cuatro",
			tag:     "numeric",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVar() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
