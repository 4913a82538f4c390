package perm

import "testing"

func TestGrantingActionForcesView(t *testing.T) {
	for _, action := range []string{ActionCreate, ActionEdit, ActionDelete} {
		m := Matrix{}
		if err := m.Set("Intern", PageLeaves, action, true); err != nil {
			t.Fatalf("set %s failed: %v", action, err)
		}
		if !m.Has("Intern", PageLeaves, ActionView) {
			t.Fatalf("granting %s must force view on", action)
		}
		if !m.Has("Intern", PageLeaves, action) {
			t.Fatalf("granted %s not readable back", action)
		}
	}
}

func TestRevokingViewClearsAllActions(t *testing.T) {
	m := DefaultMatrix()
	if !m.Has(RoleManager, PageLeaves, ActionEdit) {
		t.Fatal("default Manager row should grant leaves edit")
	}

	if err := m.Set(RoleManager, PageLeaves, ActionView, false); err != nil {
		t.Fatalf("revoke view failed: %v", err)
	}
	for _, action := range Actions {
		if m.Has(RoleManager, PageLeaves, action) {
			t.Fatalf("action %s should be cleared after view revoked", action)
		}
	}
}

func TestHasFailsClosed(t *testing.T) {
	m := DefaultMatrix()
	if m.Has("NoSuchRole", PageLeaves, ActionView) {
		t.Fatal("unknown role must deny")
	}
	if m.Has(RoleEmployee, "no-such-page", ActionView) {
		t.Fatal("unknown page must deny")
	}
	if m.Has(RoleEmployee, PageLeaves, "promote") {
		t.Fatal("unknown action must deny")
	}
	if m.Has(RoleEmployee, PageRoles, ActionView) {
		t.Fatal("unset page row must deny")
	}
}

func TestHasIsIdempotent(t *testing.T) {
	m := DefaultMatrix()
	first := m.Has(RoleHR, PageCandidates, ActionDelete)
	second := m.Has(RoleHR, PageCandidates, ActionDelete)
	if first != second {
		t.Fatal("repeated reads with no mutation must agree")
	}
}

func TestSetRejectsUnknownPageAndAction(t *testing.T) {
	m := Matrix{}
	if err := m.Set(RoleEmployee, "no-such-page", ActionView, true); err != ErrUnknownPage {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
	if err := m.Set(RoleEmployee, PageLeaves, "promote", true); err != ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestEnsureRoleStartsWithNoAccess(t *testing.T) {
	m := DefaultMatrix()
	m.EnsureRole("Contractor")
	for _, page := range Pages {
		for _, action := range Actions {
			if m.Has("Contractor", page.Key, action) {
				t.Fatalf("new role should have no access, got %s/%s", page.Key, action)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := DefaultMatrix()
	c := m.Clone()
	if err := c.Set(RoleEmployee, PageLeaves, ActionEdit, true); err != nil {
		t.Fatalf("set on clone failed: %v", err)
	}
	if m.Has(RoleEmployee, PageLeaves, ActionEdit) {
		t.Fatal("mutating a clone must not touch the original")
	}
}

func TestDefaultMatrixPagesAreRegistered(t *testing.T) {
	for role, row := range DefaultMatrix() {
		for page := range row {
			if !ValidPage(page) {
				t.Fatalf("role %s references unregistered page %s", role, page)
			}
		}
	}
}

func TestScenarioManagerLeavesViewRevocation(t *testing.T) {
	m := Matrix{}
	for _, action := range []string{ActionView, ActionCreate, ActionEdit} {
		if err := m.Set(RoleManager, PageLeaves, action, true); err != nil {
			t.Fatalf("set %s failed: %v", action, err)
		}
	}
	if err := m.Set(RoleManager, PageLeaves, ActionView, false); err != nil {
		t.Fatalf("revoke view failed: %v", err)
	}
	if m.Has(RoleManager, PageLeaves, ActionEdit) {
		t.Fatal("edit must be cleared once view is revoked")
	}
}
