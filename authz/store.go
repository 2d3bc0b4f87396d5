package authz

import (
	"context"

	"darbar/db"
	"darbar/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoGrantStore reads role documents from the admins and
// admins_by_email collections.
type MongoGrantStore struct{}

func (MongoGrantStore) GrantByUID(ctx context.Context, uid string) (*models.AdminGrant, error) {
	return decodeGrant(db.AdminsCollection.FindOne(ctx, bson.M{"_id": uid}))
}

func (MongoGrantStore) GrantByEmail(ctx context.Context, email string) (*models.AdminGrant, error) {
	return decodeGrant(db.AdminsByEmailCollection.FindOne(ctx, bson.M{"_id": email}))
}

func decodeGrant(res *mongo.SingleResult) (*models.AdminGrant, error) {
	var grant models.AdminGrant
	err := res.Decode(&grant)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
