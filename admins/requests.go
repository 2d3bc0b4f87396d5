package admins

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"darbar/db"
	"darbar/globals"
	"darbar/models"
	"darbar/mq"
	"darbar/realtime"
	"darbar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyProcessed marks an approve/reject against a request that has
// already left pending. The transition is terminal either way.
var ErrAlreadyProcessed = errors.New("request already processed")

func validGrantRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

// stillPending reports whether a request may still be approved or
// rejected. Approved and rejected are terminal states.
func stillPending(status string) bool {
	return status == models.RequestPending
}

type requestInput struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	DOB        string `json:"dob"`
}

// SubmitRequest files (or re-files) the caller's admin registration. One
// document per uid; re-submission overwrites and resets it to pending.
func SubmitRequest(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		uid, _ := r.Context().Value(globals.UserIDKey).(string)
		email, _ := r.Context().Value(globals.EmailKey).(string)
		if uid == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input requestInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.FirstName == "" || input.LastName == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "First and last name are required")
			return
		}

		request := models.AdminRequest{
			UID:        uid,
			Email:      strings.ToLower(email),
			FirstName:  input.FirstName,
			MiddleName: input.MiddleName,
			LastName:   input.LastName,
			Phone:      input.Phone,
			DOB:        input.DOB,
			Status:     models.RequestPending,
			CreatedAt:  time.Now(),
		}

		opts := options.Replace().SetUpsert(true)
		if _, err := db.AdminRequestsCollection.ReplaceOne(r.Context(), bson.M{"_id": uid}, request, opts); err != nil {
			log.Printf("request upsert failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit request")
			return
		}

		// Best-effort side effects: the request stands even if these fail.
		mq.EmitAdminRequest(request)
		hub.Publish(realtime.TopicAdminRequests, "created", request)

		utils.SendResponse(w, http.StatusCreated, request, "Registration submitted. Await super admin approval.", nil)
	}
}

// GetRequests lists pending registrations, newest first.
func GetRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sortOrder := bson.D{{Key: "createdAt", Value: -1}}
	cursor, err := db.AdminRequestsCollection.Find(ctx,
		bson.M{"status": models.RequestPending},
		options.Find().SetSort(sortOrder),
	)
	if err != nil {
		log.Printf("requests find failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}
	defer cursor.Close(ctx)

	requests := []models.AdminRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		log.Printf("requests decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, requests)
}

// Approve grants the requested role and closes the request in a single
// transaction. The status filter doubles as an optimistic guard: when two
// supers race, the second approve matches nothing and gets a 409 instead
// of issuing a duplicate grant.
func Approve(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		uid := ps.ByName("uid")
		approver, _ := r.Context().Value(globals.UserIDKey).(string)

		var input struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.Role == "" {
			input.Role = models.RoleAdmin
		}
		if !validGrantRole(input.Role) {
			utils.RespondWithError(w, http.StatusBadRequest, "Role must be admin or super_admin")
			return
		}

		request, err := approveTx(r.Context(), uid, input.Role, approver)
		if err == ErrAlreadyProcessed {
			utils.RespondWithError(w, http.StatusConflict, "Request already processed")
			return
		}
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Request not found")
			return
		}
		if err != nil {
			log.Printf("approve failed for %s: %v", uid, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve request")
			return
		}

		hub.Publish(realtime.TopicAdminRequests, "updated", request)
		hub.Publish(realtime.TopicAdmins, "updated", nil)
		utils.RespondWithJSON(w, http.StatusOK, request)
	}
}

// approveTx runs the grant writes and the status flip atomically.
func approveTx(ctx context.Context, uid, role, approver string) (*models.AdminRequest, error) {
	session, err := db.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var request models.AdminRequest
		if err := db.AdminRequestsCollection.FindOne(sc, bson.M{"_id": uid}).Decode(&request); err != nil {
			return nil, err
		}
		if !stillPending(request.Status) {
			return nil, ErrAlreadyProcessed
		}

		now := time.Now()
		opts := options.Replace().SetUpsert(true)

		grant := models.AdminGrant{
			ID:         uid,
			Role:       role,
			Email:      request.Email,
			ApprovedBy: approver,
			CreatedAt:  now,
		}
		if _, err := db.AdminsCollection.ReplaceOne(sc, bson.M{"_id": uid}, grant, opts); err != nil {
			return nil, err
		}

		if request.Email != "" {
			emailGrant := models.AdminGrant{
				ID:         request.Email,
				Role:       role,
				ApprovedBy: approver,
				CreatedAt:  now,
			}
			if _, err := db.AdminsByEmailCollection.ReplaceOne(sc, bson.M{"_id": request.Email}, emailGrant, opts); err != nil {
				return nil, err
			}
		}

		res, err := db.AdminRequestsCollection.UpdateOne(sc,
			bson.M{"_id": uid, "status": models.RequestPending},
			bson.M{"$set": bson.M{
				"status":     models.RequestApproved,
				"approvedBy": approver,
				"approvedAt": now,
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrAlreadyProcessed
		}

		request.Status = models.RequestApproved
		request.ApprovedBy = approver
		request.ApprovedAt = now
		return &request, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.AdminRequest), nil
}

// Reject closes a request without issuing any grant.
func Reject(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		uid := ps.ByName("uid")
		rejecter, _ := r.Context().Value(globals.UserIDKey).(string)

		now := time.Now()
		res, err := db.AdminRequestsCollection.UpdateOne(r.Context(),
			bson.M{"_id": uid, "status": models.RequestPending},
			bson.M{"$set": bson.M{
				"status":     models.RequestRejected,
				"rejectedBy": rejecter,
				"rejectedAt": now,
			}},
		)
		if err != nil {
			log.Printf("reject failed for %s: %v", uid, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reject request")
			return
		}
		if res.MatchedCount == 0 {
			// Either no request or already terminal.
			if err := db.AdminRequestsCollection.FindOne(r.Context(), bson.M{"_id": uid}).Err(); err == mongo.ErrNoDocuments {
				utils.RespondWithError(w, http.StatusNotFound, "Request not found")
				return
			}
			utils.RespondWithError(w, http.StatusConflict, "Request already processed")
			return
		}

		hub.Publish(realtime.TopicAdminRequests, "updated", map[string]string{
			"uid": uid, "status": models.RequestRejected,
		})
		utils.SendResponse(w, http.StatusOK, nil, "Request rejected", nil)
	}
}
