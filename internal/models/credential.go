package models

import (
	"encoding/json"
	"time"

	"consolebridge/internal/db"
	"consolebridge/internal/errmsg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TenantCredential is the secondary identity for one tenant's identity
// exchange: a username plus a secret that is already one-way hashed.
// The raw secret never reaches this service; the exchange protocol
// accepts the stored hash directly.
type TenantCredential struct {
	TenantID   string    `json:"tenantID" bson:"tenantID"`
	Username   string    `json:"username" bson:"username"`
	SecretHash string    `json:"secretHash" bson:"secretHash"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

func credentialCacheKey(tenantID string) string {
	return "cred:" + tenantID
}

// Get loads the credential for a tenant, consulting the redis cache
// before mongo. Cache entries are written on miss and dropped on Save.
func (tc *TenantCredential) Get(tenantID string) errmsg.StatusError {
	if cached, err := db.CacheGetBytes(credentialCacheKey(tenantID)); err == nil {
		if json.Unmarshal(cached, tc) == nil && tc.Username != "" {
			return errmsg.EmptyStatusError
		}
	}

	err := db.Credentials.FindOne(db.Ctx, bson.M{
		"tenantID": tenantID,
	}).Decode(&tc)
	if err != nil {
		return errmsg.CredentialNotExists
	}

	if tc.Username == "" || tc.SecretHash == "" {
		return errmsg.CredentialNotExists
	}

	if encoded, err := json.Marshal(tc); err == nil {
		_ = db.CacheSetBytes(credentialCacheKey(tenantID), encoded)
	}

	return errmsg.EmptyStatusError
}

// Save upserts the credential and invalidates the cache entry.
func (tc *TenantCredential) Save() error {
	tc.UpdatedAt = time.Now()

	_, err := db.Credentials.UpdateOne(
		db.Ctx,
		bson.M{"tenantID": tc.TenantID},
		bson.M{"$set": tc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}

	_ = db.CacheDel(credentialCacheKey(tc.TenantID))

	return nil
}
