// internal/app/features/buddies/handler.go
package buddies

import (
	"encoding/json"
	"net/http"

	groupstore "github.com/dalemusser/coachhub/internal/app/store/groups"
	"github.com/dalemusser/coachhub/internal/app/system/auditlog"
	buddysvc "github.com/dalemusser/coachhub/internal/app/system/buddies"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the buddies feature.
// The endpoints are thin JSON wrappers over the buddy service; all pairing
// logic lives in internal/app/system/buddies.
type Handler struct {
	DB     *mongo.Database
	Svc    *buddysvc.Service
	Groups *groupstore.Store
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs a buddies Handler. It is typically called from the
// bootstrap BuildHandler function. audit may be nil, which disables audit
// records.
func NewHandler(db *mongo.Database, svc *buddysvc.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Svc:    svc,
		Groups: groupstore.New(db),
		Audit:  audit,
		Log:    logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
