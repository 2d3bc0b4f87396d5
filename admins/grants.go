package admins

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"darbar/db"
	"darbar/globals"
	"darbar/models"
	"darbar/realtime"
	"darbar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAdmins lists uid-keyed grants for the dashboard.
func GetAdmins(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listGrants(w, r.Context(), db.AdminsCollection)
}

// GetAdminsByEmail lists email-keyed grants.
func GetAdminsByEmail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listGrants(w, r.Context(), db.AdminsByEmailCollection)
}

func listGrants(w http.ResponseWriter, ctx context.Context, coll *mongo.Collection) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("grants find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch admins")
		return
	}
	defer cursor.Close(ctx)

	grants := []models.AdminGrant{}
	if err = cursor.All(ctx, &grants); err != nil {
		log.Printf("grants decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch admins")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, grants)
}

// Invite writes role=admin grants for a uid, an email, or both.
func Invite(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var input struct {
			UID   string `json:"uid"`
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.UID == "" && input.Email == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Provide email or UID")
			return
		}

		inviter, _ := r.Context().Value(globals.UserIDKey).(string)
		now := time.Now()
		opts := options.Replace().SetUpsert(true)

		if input.UID != "" {
			grant := models.AdminGrant{ID: input.UID, Role: models.RoleAdmin, InvitedBy: inviter, CreatedAt: now}
			if _, err := db.AdminsCollection.ReplaceOne(r.Context(), bson.M{"_id": input.UID}, grant, opts); err != nil {
				log.Printf("invite by uid failed: %v", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to invite")
				return
			}
		}
		if input.Email != "" {
			email := strings.ToLower(input.Email)
			grant := models.AdminGrant{ID: email, Role: models.RoleAdmin, InvitedBy: inviter, CreatedAt: now}
			if _, err := db.AdminsByEmailCollection.ReplaceOne(r.Context(), bson.M{"_id": email}, grant, opts); err != nil {
				log.Printf("invite by email failed: %v", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to invite")
				return
			}
		}

		hub.Publish(realtime.TopicAdmins, "updated", nil)
		utils.SendResponse(w, http.StatusOK, nil, "Invited", nil)
	}
}

// ToggleRole flips a uid grant between admin and super_admin.
func ToggleRole(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		uid := ps.ByName("uid")

		var grant models.AdminGrant
		err := db.AdminsCollection.FindOne(r.Context(), bson.M{"_id": uid}).Decode(&grant)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Admin not found")
			return
		}
		if err != nil {
			log.Printf("grant lookup failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update role")
			return
		}

		next := models.RoleSuperAdmin
		if grant.Role == models.RoleSuperAdmin {
			next = models.RoleAdmin
		}

		_, err = db.AdminsCollection.UpdateOne(r.Context(), bson.M{"_id": uid}, bson.M{"$set": bson.M{"role": next}})
		if err != nil {
			log.Printf("role toggle failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update role")
			return
		}

		grant.Role = next
		hub.Publish(realtime.TopicAdmins, "updated", grant)
		utils.RespondWithJSON(w, http.StatusOK, grant)
	}
}

// DeleteGrant removes a uid-keyed grant. Super-admin grants are refused
// until demoted, so the last super cannot vanish by accident.
func DeleteGrant(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		deleteGrant(w, r, hub, db.AdminsCollection, ps.ByName("uid"))
	}
}

// DeleteEmailGrant removes an email-keyed grant, same guard.
func DeleteEmailGrant(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		deleteGrant(w, r, hub, db.AdminsByEmailCollection, strings.ToLower(ps.ByName("email")))
	}
}

// canDeleteGrant refuses removal while the doc still carries the
// super_admin role; demotion has to happen first.
func canDeleteGrant(role string) bool {
	return role != models.RoleSuperAdmin
}

func deleteGrant(w http.ResponseWriter, r *http.Request, hub *realtime.Hub, coll *mongo.Collection, id string) {
	var grant models.AdminGrant
	err := coll.FindOne(r.Context(), bson.M{"_id": id}).Decode(&grant)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Admin not found")
		return
	}
	if err != nil {
		log.Printf("grant lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove admin")
		return
	}

	if !canDeleteGrant(grant.Role) {
		utils.RespondWithError(w, http.StatusConflict, "Demote super admin before removing")
		return
	}

	if _, err := coll.DeleteOne(r.Context(), bson.M{"_id": id}); err != nil {
		log.Printf("grant delete failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove admin")
		return
	}

	hub.Publish(realtime.TopicAdmins, "deleted", map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
