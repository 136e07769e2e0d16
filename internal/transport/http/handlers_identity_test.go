package httptransport

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"recrusearch/internal/domain"
	"recrusearch/internal/identity"
	"recrusearch/internal/transport/http/mocks"
	dErrors "recrusearch/pkg/domain-errors"
	"recrusearch/pkg/testutil"
)

func newIdentityRouter(t *testing.T) (*mocks.MockIdentityService, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockIdentityService(ctrl)
	r := chi.NewRouter()
	newIdentityHandler(svc, slog.Default()).Register(r)
	return svc, r
}

func TestHandleRegisterResearcher(t *testing.T) {
	t.Run("registration returns the pending profile", func(t *testing.T) {
		svc, r := newIdentityRouter(t)
		created := domain.NewResearcher("r1", "MIT", "cred-hash", time.Now().UTC())
		svc.EXPECT().RegisterResearcher(gomock.Any(), domain.Authority("r1"), "MIT", "cred-hash").
			Return(created, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/researchers", map[string]any{
			"institution":      "MIT",
			"credentials_hash": "cred-hash",
		})
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "r1"))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "institution", "MIT")
	})

	t.Run("duplicate registration maps to 409", func(t *testing.T) {
		svc, r := newIdentityRouter(t)
		svc.EXPECT().RegisterResearcher(gomock.Any(), domain.Authority("r1"), "MIT", "cred-hash").
			Return(nil, dErrors.New(dErrors.CodeAlreadyExists, "researcher r1 is already registered"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/researchers", map[string]any{
			"institution":      "MIT",
			"credentials_hash": "cred-hash",
		})
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "r1"))

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeAlreadyExists))
	})
}

func TestHandleRegisterParticipant(t *testing.T) {
	svc, r := newIdentityRouter(t)
	created := domain.NewParticipant("p1", "proof-of-eligibility", time.Now().UTC())
	svc.EXPECT().RegisterParticipant(gomock.Any(), domain.Authority("p1"), "proof-of-eligibility").
		Return(created, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/participants", map[string]any{
		"eligibility_proof": "proof-of-eligibility",
	})
	rr := testutil.DoRequest(r, testutil.WithAuthority(req, "p1"))

	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestHandleReviewResearcher(t *testing.T) {
	t.Run("verify forwarded with the path authority", func(t *testing.T) {
		svc, r := newIdentityRouter(t)
		svc.EXPECT().VerifyResearcher(gomock.Any(), domain.Authority("admin-1"), domain.Authority("r1")).Return(nil)

		req := testutil.NewRequest(t, http.MethodPost, "/researchers/r1/verify")
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "admin-1"))

		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	t.Run("reject by non-admin maps to 401", func(t *testing.T) {
		svc, r := newIdentityRouter(t)
		svc.EXPECT().RejectResearcher(gomock.Any(), domain.Authority("p1"), domain.Authority("r1")).
			Return(dErrors.New(dErrors.CodeUnauthorized, "only the admin may review researchers"))

		req := testutil.NewRequest(t, http.MethodPost, "/researchers/r1/reject")
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "p1"))

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}

func TestHandleManageParticipant(t *testing.T) {
	t.Run("suspend forwarded", func(t *testing.T) {
		svc, r := newIdentityRouter(t)
		svc.EXPECT().ManageParticipant(gomock.Any(), domain.Authority("admin-1"), domain.Authority("p1"), identity.ActionSuspend).Return(nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/participants/p1/manage", map[string]any{"action": "suspend"})
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "admin-1"))

		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	t.Run("unknown action rejected before the service is called", func(t *testing.T) {
		_, r := newIdentityRouter(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/participants/p1/manage", map[string]any{"action": "shadowban"})
		rr := testutil.DoRequest(r, testutil.WithAuthority(req, "admin-1"))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHandleUpdateInterests(t *testing.T) {
	svc, r := newIdentityRouter(t)
	svc.EXPECT().UpdateInterests(gomock.Any(), domain.Authority("p1"), []string{"sleep", "memory"}).Return(nil)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/participants/interests", map[string]any{
		"interests": []string{"sleep", "memory"},
	})
	rr := testutil.DoRequest(r, testutil.WithAuthority(req, "p1"))

	testutil.AssertStatus(t, rr, http.StatusNoContent)
}
