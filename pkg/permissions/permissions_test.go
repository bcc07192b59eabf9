package permissions

import (
	"testing"

	"github.com/angelmondragon/markethub-backend/pkg/enums"
)

func TestParseIsCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"VIEW_PRODUCTS", "view_products", " View_Products "} {
		p, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if p != ViewProducts {
			t.Fatalf("parse %q: got %s", raw, p)
		}
	}

	if _, err := Parse("SHIP_PRODUCTS"); err == nil {
		t.Fatal("expected error for unknown permission")
	}
}

func TestAllIsClosedEnumeration(t *testing.T) {
	perms := All()
	if len(perms) != 14 {
		t.Fatalf("expected 14 permissions, got %d", len(perms))
	}
	seen := map[Permission]struct{}{}
	for _, p := range perms {
		if _, dup := seen[p]; dup {
			t.Fatalf("duplicate permission %s", p)
		}
		seen[p] = struct{}{}
	}
}

func TestParseSetSkipsUnknown(t *testing.T) {
	set, unknown := ParseSet([]string{"view_orders", "bogus", "PROCESS_ORDERS"})
	if len(set) != 2 {
		t.Fatalf("expected 2 parsed permissions, got %d", len(set))
	}
	if !set.Contains(ViewOrders) || !set.Contains(ProcessOrders) {
		t.Fatalf("unexpected set contents %v", set.Strings())
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Fatalf("unexpected unknown list %v", unknown)
	}
}

func TestDefaultRoleGrants(t *testing.T) {
	grants := DefaultRoleGrants()

	if got := len(grants[enums.MemberRoleOwner]); got != len(All()) {
		t.Fatalf("owner should hold all permissions, got %d", got)
	}
	if got := len(grants[enums.MemberRoleAdmin]); got != len(All()) {
		t.Fatalf("admin should hold all permissions, got %d", got)
	}

	manager := grants[enums.MemberRoleManager]
	if !manager.Contains(ProcessOrders) || manager.Contains(DeleteProducts) {
		t.Fatalf("unexpected manager grants %v", manager.Strings())
	}

	staff := grants[enums.MemberRoleStaff]
	if len(staff) != 2 || !staff.Contains(ViewProducts) || !staff.Contains(ViewOrders) {
		t.Fatalf("unexpected staff grants %v", staff.Strings())
	}

	if len(grants[enums.MemberRoleCustom]) != 0 {
		t.Fatal("custom role has no defaults")
	}
}

func TestRoleGrantsForReturnsCopy(t *testing.T) {
	grants := DefaultRoleGrants()
	staff := grants.For(enums.MemberRoleStaff)
	staff.Add(DeleteProducts)
	if grants[enums.MemberRoleStaff].Contains(DeleteProducts) {
		t.Fatal("mutating the returned set must not touch the defaults")
	}
}
