package catalog

import (
	"context"
	"testing"

	"github.com/suren2787/contextmap/pkg/model"
)

func TestValidateComponents(t *testing.T) {
	tests := []struct {
		name       string
		components []model.ComponentRecord
		wantErr    bool
	}{
		{"empty", nil, false},
		{"valid", []model.ComponentRecord{{ID: "a"}, {ID: "b"}}, false},
		{"missing id", []model.ComponentRecord{{Name: "anonymous"}}, true},
		{"duplicate id", []model.ComponentRecord{{ID: "a"}, {ID: "a"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponents(tt.components)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComponents() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateApis(t *testing.T) {
	tests := []struct {
		name    string
		apis    []model.ApiRecord
		wantErr bool
	}{
		{"valid", []model.ApiRecord{{ID: "orders-api", Type: "openapi"}}, false},
		{"missing id", []model.ApiRecord{{Type: "openapi"}}, true},
		{"duplicate id", []model.ApiRecord{{ID: "x"}, {ID: "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateApis(tt.apis)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateApis() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDemoSourceValidates(t *testing.T) {
	source := NewDemoSource()

	components, err := source.Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	if err := ValidateComponents(components); err != nil {
		t.Errorf("demo components invalid: %v", err)
	}

	apis, err := source.Apis(context.Background())
	if err != nil {
		t.Fatalf("Apis: %v", err)
	}
	if err := ValidateApis(apis); err != nil {
		t.Errorf("demo apis invalid: %v", err)
	}
}
