package catalog

import (
	"context"

	"github.com/suren2787/contextmap/pkg/model"
)

// DemoSource serves a built-in retail-banking catalog. It backs the --demo
// mode and gives the analysis endpoints something to show without a catalog
// directory or remote catalog instance.
type DemoSource struct{}

// NewDemoSource creates a source backed by the banking fixture
func NewDemoSource() Source {
	return &DemoSource{}
}

func (s *DemoSource) Name() string {
	return "Demo"
}

func (s *DemoSource) Components(ctx context.Context) ([]model.ComponentRecord, error) {
	return demoComponents(), nil
}

func (s *DemoSource) Apis(ctx context.Context) ([]model.ApiRecord, error) {
	return demoApis(), nil
}

// demoComponents returns the banking components in a fixed order; the order
// determines first-seen context ordering and therefore relationship ids.
func demoComponents() []model.ComponentRecord {
	return []model.ComponentRecord{
		{
			ID:           "payment-service",
			Name:         "Payment Service",
			Type:         "service",
			System:       "payment-core",
			Domain:       "payments",
			Owner:        "team-payments",
			ProvidesAPIs: []string{"payment-api"},
			ConsumesAPIs: []string{"account-api", "balance-inquiry-api", "transaction-history-api"},
			ProjectSlug:  "acme-bank/payment-service",
		},
		{
			ID:           "account-service",
			Name:         "Account Service",
			Type:         "service",
			System:       "account-management",
			Domain:       "payments",
			Owner:        "team-accounts",
			ProvidesAPIs: []string{"account-api", "balance-inquiry-api"},
			ConsumesAPIs: []string{"api:default/customer-api", "transaction-history-api"},
			ProjectSlug:  "acme-bank/account-service",
		},
		{
			ID:             "customer-service",
			Name:           "Customer Service",
			Type:           "service",
			System:         "customer-management",
			Domain:         "customers",
			Owner:          "team-customers",
			ProvidesAPIs:   []string{"customer-api"},
			ConsumesAPIs:   []string{"notification-api"}, // no matching API record
			SourceLocation: "url:https://github.com/acme-bank/customer-service",
		},
		{
			ID:           "kyc-service",
			Name:         "KYC Service",
			Type:         "service",
			System:       "customer-management",
			Domain:       "customers",
			Owner:        "team-customers",
			ProvidesAPIs: []string{"kyc-verification-api"},
		},
		{
			ID:           "loan-service",
			Name:         "Loan Service",
			Type:         "service",
			System:       "loan-origination",
			Domain:       "lending",
			Owner:        "team-lending",
			ProvidesAPIs: []string{"loan-api"},
			ConsumesAPIs: []string{"customer-api", "kyc-verification-api", "api:default/account-api"},
			ProjectSlug:  "acme-bank/loan-service",
		},
		{
			ID:           "transaction-service",
			Name:         "Transaction Service",
			Type:         "service",
			System:       "transaction-processing",
			Domain:       "payments",
			Owner:        "team-payments",
			ProvidesAPIs: []string{"transaction-history-api"},
			ConsumesAPIs: []string{"fraud-screening-api"}, // external, unresolved
			ProjectSlug:  "acme-bank/transaction-service",
		},
	}
}

func demoApis() []model.ApiRecord {
	return []model.ApiRecord{
		{ID: "payment-api", Type: "grpc", System: "payment-core", Owner: "team-payments"},
		{ID: "account-api", Type: "openapi", System: "account-management", Owner: "team-accounts"},
		{ID: "balance-inquiry-api", Type: "openapi", System: "account-management", Owner: "team-accounts"},
		{ID: "customer-api", Type: "openapi", System: "customer-management", Owner: "team-customers"},
		{ID: "kyc-verification-api", Type: "soap", System: "customer-management", Owner: "team-customers"},
		{ID: "transaction-history-api", Type: "messaging", System: "transaction-processing", Owner: "team-payments"},
		{ID: "loan-api", Type: "openapi", System: "loan-origination", Owner: "team-lending"},
	}
}
