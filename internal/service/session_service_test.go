package service

import (
	"errors"
	"testing"
)

func TestEnsureOwnerCreateAndReuse(t *testing.T) {
	gdb := openRemoteTestDB(t, "session_ensure")
	svc := NewSessionService(gdb, NewRemoteSyncService(gdb))

	created, err := svc.EnsureOwner("")
	if err != nil {
		t.Fatalf("EnsureOwner returned error: %v", err)
	}
	if !created.Created {
		t.Fatal("expected fresh identity to be marked created")
	}
	if created.OwnerID == "" || created.ClaimSecret == "" {
		t.Fatalf("expected owner id and claim secret, got %+v", created)
	}

	reused, err := svc.EnsureOwner(created.OwnerID)
	if err != nil {
		t.Fatalf("EnsureOwner reuse returned error: %v", err)
	}
	if reused.Created {
		t.Fatal("reused identity should not be marked created")
	}
	if reused.OwnerID != created.OwnerID {
		t.Fatalf("expected same owner id, got %s", reused.OwnerID)
	}
	// 认领口令只在新建时返回
	if reused.ClaimSecret != "" {
		t.Fatal("reused identity should not return a claim secret")
	}

	// 陈旧 cookie 指向不存在的身份时新建一个
	fresh, err := svc.EnsureOwner("no-such-owner")
	if err != nil {
		t.Fatalf("EnsureOwner with stale id returned error: %v", err)
	}
	if !fresh.Created || fresh.OwnerID == created.OwnerID {
		t.Fatalf("expected a new identity, got %+v", fresh)
	}
}

func TestClaimOwner(t *testing.T) {
	gdb := openRemoteTestDB(t, "session_claim")
	svc := NewSessionService(gdb, NewRemoteSyncService(gdb))

	identity, err := svc.EnsureOwner("")
	if err != nil {
		t.Fatalf("EnsureOwner returned error: %v", err)
	}

	if err := svc.ClaimOwner(identity.OwnerID, identity.ClaimSecret); err != nil {
		t.Fatalf("ClaimOwner with correct secret returned error: %v", err)
	}

	if err := svc.ClaimOwner(identity.OwnerID, "wrong"); !errors.Is(err, ErrClaimSecretMismatch) {
		t.Fatalf("expected ErrClaimSecretMismatch, got %v", err)
	}

	if err := svc.ClaimOwner("no-such-owner", identity.ClaimSecret); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestBootstrapProfilesSeedsDefault(t *testing.T) {
	gdb := openRemoteTestDB(t, "session_bootstrap")
	remote := NewRemoteSyncService(gdb)
	svc := NewSessionService(gdb, remote)

	identity, err := svc.EnsureOwner("")
	if err != nil {
		t.Fatalf("EnsureOwner returned error: %v", err)
	}

	users, selected, err := svc.BootstrapProfiles(identity.OwnerID, "")
	if err != nil {
		t.Fatalf("BootstrapProfiles returned error: %v", err)
	}
	if len(users) != 1 || users[0].Name != "User 1" {
		t.Fatalf("expected seeded default profile, got %+v", users)
	}
	if selected != users[0].ID {
		t.Fatalf("expected seeded profile selected, got %s", selected)
	}

	// 二次引导复用既有档案，不再种子化
	again, selectedAgain, err := svc.BootstrapProfiles(identity.OwnerID, users[0].ID)
	if err != nil {
		t.Fatalf("BootstrapProfiles replay returned error: %v", err)
	}
	if len(again) != 1 || again[0].ID != users[0].ID {
		t.Fatalf("expected same single profile, got %+v", again)
	}
	if selectedAgain != users[0].ID {
		t.Fatalf("expected preferred profile kept, got %s", selectedAgain)
	}

	// preferred 不存在时回退到第一个档案
	_, fallback, err := svc.BootstrapProfiles(identity.OwnerID, "no-such-profile")
	if err != nil {
		t.Fatalf("BootstrapProfiles fallback returned error: %v", err)
	}
	if fallback != users[0].ID {
		t.Fatalf("expected fallback to first profile, got %s", fallback)
	}
}
