package asset

import "testing"

func TestCloneDetachesListing(t *testing.T) {
	original := Asset{ID: 3, Owner: "alice", Listing: &Listing{Seller: "alice", Price: 10}}
	clone := original.Clone()
	clone.Listing.Price = 99
	if original.Listing.Price != 10 {
		t.Fatalf("original price = %d, want 10", original.Listing.Price)
	}
	if !clone.Listed() || clone.Price() != 99 {
		t.Fatalf("clone = %+v", clone)
	}
}

func TestUnlistedPrice(t *testing.T) {
	a := Asset{ID: 1}
	if a.Listed() || a.Price() != 0 {
		t.Fatalf("asset = %+v, want unlisted", a)
	}
	if ID(42).String() != "42" {
		t.Fatalf("id string = %q", ID(42).String())
	}
}
