package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/nabava/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected unknown JTI to not be revoked")
	}

	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "some-jti")
	if !revoked {
		t.Error("expected JTI to be revoked")
	}

	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("expected double revoke to succeed, got %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeToken(ctx, database, "expired-jti", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "fresh-jti", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "expired-jti")
	if revoked {
		t.Error("expected expired revocation to be cleaned up")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "fresh-jti")
	if !revoked {
		t.Error("expected fresh revocation to survive cleanup")
	}
}
