package admins

import (
	"log"
	"net/http"

	"darbar/authz"
	"darbar/db"
	"darbar/globals"
	"darbar/middleware"
	"darbar/models"
	"darbar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetStatus reports the caller's resolved privileges plus whether their
// admin registration is still pending. Pending is derived fresh on every
// call, never cached, so a revoked grant cannot resurface a stale banner.
func GetStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, _ := r.Context().Value(globals.UserIDKey).(string)
	email, _ := r.Context().Value(globals.EmailKey).(string)

	status, err := middleware.Authz.Resolve(r.Context(), uid, email)
	if err != nil {
		// Fail closed; the operator log gets the detail.
		log.Printf("status resolution failed for %s: %v", uid, err)
		utils.RespondWithJSON(w, http.StatusOK, map[string]bool{
			"isAdmin": false, "isSuperAdmin": false, "isAdminPending": false,
		})
		return
	}

	reqStatus := ""
	if !status.IsAdmin {
		var req models.AdminRequest
		err := db.AdminRequestsCollection.FindOne(r.Context(), bson.M{"_id": uid}).Decode(&req)
		if err != nil && err != mongo.ErrNoDocuments {
			log.Printf("admin request lookup failed for %s: %v", uid, err)
		} else if err == nil {
			reqStatus = req.Status
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{
		"isAdmin":        status.IsAdmin,
		"isSuperAdmin":   status.IsSuperAdmin,
		"isAdminPending": authz.Pending(status, reqStatus),
	})
}
