package personas

import (
	"context"
	"errors"
	"fmt"
	"testing"

	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/louisbranch/agenda/internal/services/agenda/validation"
)

func TestFailureKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCreate string
		wantUpdate string
	}{
		{name: "empty name", err: &validation.EmptyFieldError{Field: validation.FieldName}, wantCreate: keyNameRequired, wantUpdate: keyNameRequired},
		{name: "empty email", err: &validation.EmptyFieldError{Field: validation.FieldEmail}, wantCreate: keyEmailRequired, wantUpdate: keyEmailRequired},
		{name: "malformed email", err: &validation.MalformedEmailError{Value: "x"}, wantCreate: keyEmailMalformed, wantUpdate: keyEmailMalformed},
		{name: "schema missing", err: fmt.Errorf("persona: %w", storage.ErrSchemaMissing), wantCreate: keyTableMissing, wantUpdate: keyStorageUnavailable},
		{name: "insert unverified", err: corepersonas.ErrInsertUnverified, wantCreate: keyInsertUnverified, wantUpdate: keyStorageUnavailable},
		{name: "unavailable", err: storage.ErrUnavailable, wantCreate: keyStorageUnavailable, wantUpdate: keyStorageUnavailable},
		{name: "untyped", err: errors.New("boom"), wantCreate: keyStorageUnavailable, wantUpdate: keyStorageUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := createFailureKey(tc.err); got != tc.wantCreate {
				t.Fatalf("createFailureKey() = %q, want %q", got, tc.wantCreate)
			}
			if got := updateFailureKey(tc.err); got != tc.wantUpdate {
				t.Fatalf("updateFailureKey() = %q, want %q", got, tc.wantUpdate)
			}
		})
	}
}

func TestServicePassesRawInputToGatewayOnce(t *testing.T) {
	t.Parallel()

	gateway := newFakeGateway()
	svc := newService(gateway)

	_, err := svc.createPersona(context.Background(), "Ana", "not-an-email")
	var malformed *validation.MalformedEmailError
	if !errors.As(err, &malformed) {
		t.Fatalf("createPersona() error = %v, want MalformedEmailError", err)
	}
	if err := svc.updatePersona(context.Background(), 1, " ", "ana@x.io"); err == nil {
		t.Fatal("expected empty name error")
	}
	if gateway.createCalls != 1 || gateway.updateCalls != 1 {
		t.Fatalf("gateway calls create=%d update=%d, want 1 each", gateway.createCalls, gateway.updateCalls)
	}
	if gateway.creates != 0 || gateway.updates != 0 {
		t.Fatalf("gateway writes creates=%d updates=%d, want 0", gateway.creates, gateway.updates)
	}
}

func TestUnavailableGatewayValidatesBeforeReportingStorage(t *testing.T) {
	t.Parallel()

	var gw unavailableGateway
	var malformed *validation.MalformedEmailError
	if _, err := gw.CreatePersona(context.Background(), "Ana", "broken"); !errors.As(err, &malformed) {
		t.Fatalf("CreatePersona() error = %v, want MalformedEmailError", err)
	}
	if _, err := gw.CreatePersona(context.Background(), "Ana", "ana@x.io"); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("CreatePersona() error = %v, want ErrUnavailable", err)
	}
	var empty *validation.EmptyFieldError
	if err := gw.UpdatePersona(context.Background(), 1, "Ana", " "); !errors.As(err, &empty) || empty.Field != validation.FieldEmail {
		t.Fatalf("UpdatePersona() error = %v, want empty email", err)
	}
	if err := gw.UpdatePersona(context.Background(), 1, "Ana", "ana@x.io"); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("UpdatePersona() error = %v, want ErrUnavailable", err)
	}
}

func TestServiceDefaultsToUnavailableGateway(t *testing.T) {
	t.Parallel()

	svc := newService(nil)
	if _, err := svc.listPersonas(context.Background()); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("listPersonas() error = %v, want ErrUnavailable", err)
	}
	if _, _, err := svc.getPersona(context.Background(), 1); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("getPersona() error = %v, want ErrUnavailable", err)
	}
	if err := svc.deletePersona(context.Background(), 1); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("deletePersona() error = %v, want ErrUnavailable", err)
	}
	_, err := svc.createPersona(context.Background(), "", "ana@x.io")
	var empty *validation.EmptyFieldError
	if !errors.As(err, &empty) || empty.Field != validation.FieldName {
		t.Fatalf("createPersona() error = %v, want empty name before storage", err)
	}
}

func TestServiceListNormalizesNil(t *testing.T) {
	t.Parallel()

	items, err := newService(newFakeGateway()).listPersonas(context.Background())
	if err != nil {
		t.Fatalf("listPersonas() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("listPersonas() = %#v, want empty slice", items)
	}
}
