package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const componentYAML = `apiVersion: backstage.io/v1alpha1
kind: Component
metadata:
  name: payment-service
  title: Payment Service
  annotations:
    github.com/project-slug: acme-bank/payment-service
spec:
  type: service
  system: payment-core
  domain: payments
  owner: team-payments
  providesApis:
    - payment-api
  consumesApis:
    - account-api
`

const multiDocYAML = `apiVersion: backstage.io/v1alpha1
kind: API
metadata:
  name: payment-api
spec:
  type: grpc
  system: payment-core
  owner: team-payments
---
apiVersion: backstage.io/v1alpha1
kind: API
metadata:
  name: account-api
  annotations:
    backstage.io/source-location: url:https://github.com/acme-bank/account-service
spec:
  type: openapi
  system: account-management
  owner: team-accounts
`

func TestFileSourceComponents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payment-service.yaml", componentYAML)

	components, err := NewFileSource(dir).Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}

	if len(components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(components))
	}
	got := components[0]
	if got.ID != "payment-service" || got.Name != "Payment Service" {
		t.Errorf("identity = %q/%q", got.ID, got.Name)
	}
	if got.System != "payment-core" || got.Domain != "payments" || got.Owner != "team-payments" {
		t.Errorf("attributes = %q/%q/%q", got.System, got.Domain, got.Owner)
	}
	if got.ProjectSlug != "acme-bank/payment-service" {
		t.Errorf("ProjectSlug = %q", got.ProjectSlug)
	}
	if len(got.ProvidesAPIs) != 1 || got.ProvidesAPIs[0] != "payment-api" {
		t.Errorf("ProvidesAPIs = %v", got.ProvidesAPIs)
	}
	if len(got.ConsumesAPIs) != 1 || got.ConsumesAPIs[0] != "account-api" {
		t.Errorf("ConsumesAPIs = %v", got.ConsumesAPIs)
	}
}

func TestFileSourceMultiDocumentApis(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "apis.yaml", multiDocYAML)

	apis, err := NewFileSource(dir).Apis(context.Background())
	if err != nil {
		t.Fatalf("Apis: %v", err)
	}

	if len(apis) != 2 {
		t.Fatalf("expected 2 APIs from multi-document file, got %d", len(apis))
	}
	if apis[0].ID != "payment-api" || apis[0].Type != "grpc" {
		t.Errorf("apis[0] = %+v", apis[0])
	}
	if apis[1].ID != "account-api" || apis[1].Type != "openapi" {
		t.Errorf("apis[1] = %+v", apis[1])
	}
}

func TestFileSourceWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("services", "payment-service.yml"), componentYAML)

	components, err := NewFileSource(dir).Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	if len(components) != 1 {
		t.Errorf("expected nested entity file to be found, got %d components", len(components))
	}
}

func TestFileSourceSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payment-service.yaml", componentYAML)
	writeFile(t, dir, "broken.yaml", "kind: [unclosed\n")

	components, err := NewFileSource(dir).Components(context.Background())
	if err != nil {
		t.Fatalf("malformed file should be skipped, got error: %v", err)
	}
	if len(components) != 1 {
		t.Errorf("expected 1 component from the valid file, got %d", len(components))
	}
}

func TestFileSourceIgnoresNonEntityFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# not a catalog entity\n")
	writeFile(t, dir, "notes.txt", "kind: Component\n")

	components, err := NewFileSource(dir).Components(context.Background())
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	if len(components) != 0 {
		t.Errorf("expected 0 components, got %d", len(components))
	}
}

func TestFileSourceMissingDirectory(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing")).Components(context.Background())
	if err == nil {
		t.Error("expected error for missing catalog directory")
	}
}
