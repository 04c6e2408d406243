package permission

import "testing"

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewModuleRegistry()

	if err := r.Register("clients", "client", crud("client")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	caps, ok := r.Permissions("clients")
	if !ok {
		t.Fatal("expected module to be registered")
	}
	if len(caps) != 4 {
		t.Fatalf("expected 4 capabilities, got %d", len(caps))
	}

	resource, ok := r.Resource("clients")
	if !ok || resource != "client" {
		t.Fatalf("expected resource client, got %q", resource)
	}
}

func TestRegistryRejectsDuplicatesAndFrozen(t *testing.T) {
	r := NewModuleRegistry()
	_ = r.Register("clients", "client", crud("client"))

	if err := r.Register("clients", "client", nil); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}

	r.Freeze()
	if err := r.Register("plans", "plan", crud("plan")); err == nil {
		t.Fatal("expected registration after freeze to fail")
	}
}

func TestRegistryRejectsMalformedCapability(t *testing.T) {
	r := NewModuleRegistry()
	if err := r.Register("clients", "client", []string{"notacapability"}); err == nil {
		t.Fatal("expected malformed capability to be rejected")
	}
}

func TestRegistryUnknownModule(t *testing.T) {
	r := DefaultRegistry()
	if _, ok := r.Permissions("billing"); ok {
		t.Fatal("unknown module must not resolve")
	}
	if _, ok := r.Resource("billing"); ok {
		t.Fatal("unknown module must not resolve")
	}
}

func TestDefaultRegistryCoversAllModules(t *testing.T) {
	r := DefaultRegistry()

	want := []string{
		ModuleClients, ModuleRoutines, ModulePlans,
		ModuleSchedules, ModuleExercises, ModuleReports, ModuleScreen,
	}
	if r.Count() != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), r.Count())
	}
	for _, m := range want {
		caps, ok := r.Permissions(m)
		if !ok || len(caps) == 0 {
			t.Fatalf("module %q missing or empty", m)
		}
	}
}

func TestSplitCapability(t *testing.T) {
	resource, action, err := SplitCapability("client:create")
	if err != nil || resource != "client" || action != "create" {
		t.Fatalf("unexpected split: %q %q %v", resource, action, err)
	}

	for _, bad := range []string{"", "client", ":create", "client:"} {
		if _, _, err := SplitCapability(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
