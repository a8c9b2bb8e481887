package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"petitions/internal/petition/handler/mocks"
	"petitions/internal/petition/models"
	"petitions/internal/platform/middleware"
	dErrors "petitions/pkg/domain-errors"
	"petitions/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/petition-mocks.go -package=mocks Service

type PetitionHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestPetitionHandlerSuite(t *testing.T) {
	suite.Run(t, new(PetitionHandlerSuite))
}

func (s *PetitionHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s.router = newRouter(s.service, nil)
}

func newRouter(svc Service, editor *middleware.EditorValidator) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger, editor).Register(r)
	return r
}

func (s *PetitionHandlerSuite) petition(id int64) *models.Petition {
	return &models.Petition{
		ID: id, Name: "Save the Park", Target: 100,
		EmailSubject: "Thanks", EmailContent: "Thanks for signing our petition",
		CreatedAt: s.now, UpdatedAt: s.now,
	}
}

func (s *PetitionHandlerSuite) TestListAcceptsBothPaths() {
	s.service.EXPECT().ListPetitions(gomock.Any()).Return([]*models.Petition{s.petition(1)}, nil).Times(2)

	for _, path := range []string{"/petitions", "/petitions/"} {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		list := testutil.UnmarshalResponse[[]PetitionResponse](s.T(), rr)
		s.Require().Len(list, 1)
		s.Equal("Save the Park", list[0].Name)
	}
}

func (s *PetitionHandlerSuite) TestListReturnsEmptyArray() {
	s.service.EXPECT().ListPetitions(gomock.Any()).Return(nil, nil)
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/petitions/", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *PetitionHandlerSuite) TestCreate() {
	s.Run("decodes the body and returns the petition", func() {
		s.service.EXPECT().CreatePetition(gomock.Any(), &models.CreatePetitionRequest{
			Name: "Save the Park", Target: 100, EmailSubject: "Thanks", EmailContent: "Thanks for signing our petition",
		}).Return(s.petition(3), nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/",
			`{"name":"Save the Park","target":100,"email_subject":"Thanks","email_content":"Thanks for signing our petition"}`))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[PetitionResponse](s.T(), rr)
		s.Equal(int64(3), resp.ID)
		s.Equal(0, resp.SignatureCount)
	})

	s.Run("malformed json is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/", `{"name":`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("empty body is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/", ``))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("validation errors list the fields", func() {
		s.service.EXPECT().CreatePetition(gomock.Any(), gomock.Any()).Return(nil, dErrors.Validation([]dErrors.FieldError{
			{Field: "name", Message: "must be at least 3 characters"},
			{Field: "target", Message: "must be greater than 0"},
		}))
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/", `{}`))
		resp := testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
		s.Equal([]string{"name", "target"}, resp.FieldNames())
	})
}

func (s *PetitionHandlerSuite) TestIDParsing() {
	for _, path := range []string{"/petitions/abc", "/petitions/0", "/petitions/-4", "/petitions/abc/signatures"} {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	}
}

func (s *PetitionHandlerSuite) TestGetIncludesSignatures() {
	sig := &models.Signature{ID: 9, PetitionID: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com", PhoneNumber: "+1234567890", CreatedAt: s.now}
	s.service.EXPECT().GetPetition(gomock.Any(), int64(1)).Return(&models.PetitionDetails{
		Petition: s.petition(1), Signatures: []*models.Signature{sig},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/petitions/1", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[PetitionDetailResponse](s.T(), rr)
	s.Equal(int64(1), resp.ID)
	s.Require().Len(resp.Signatures, 1)
	s.Equal("john@example.com", resp.Signatures[0].Email)
}

func (s *PetitionHandlerSuite) TestUpdatePassesPresenceThrough() {
	s.service.EXPECT().UpdatePetition(gomock.Any(), int64(2), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, req *models.UpdatePetitionRequest) (*models.Petition, error) {
			s.True(req.Target.Set)
			s.Equal(250, req.Target.Value)
			s.False(req.Name.Set)
			s.True(req.EmailSubject.Null)
			return s.petition(2), nil
		})

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, "/petitions/2",
		`{"target":250,"email_subject":null}`))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *PetitionHandlerSuite) TestErrorMapping() {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", dErrors.New(dErrors.CodeNotFound, "petition not found"), http.StatusNotFound, "not_found"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "petition already signed with this email"), http.StatusConflict, "conflict"},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "transaction aborted"), http.StatusGatewayTimeout, "timeout"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.service.EXPECT().SignPetition(gomock.Any(), int64(5), gomock.Any()).Return(nil, tc.err)
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/5/signatures",
				`{"first_name":"John","last_name":"Doe","email":"john@example.com","phone_number":"+1234567890"}`))
			resp := testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
			if tc.code == "internal_error" {
				s.Empty(resp.ErrorDescription, "internal details are not exposed")
			}
		})
	}
}

func (s *PetitionHandlerSuite) TestDeleteReturnsNoContent() {
	s.service.EXPECT().DeletePetition(gomock.Any(), int64(4)).Return(nil)
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/petitions/4", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	s.Empty(rr.Body.String())
}

func (s *PetitionHandlerSuite) TestEditorRoutes() {
	validator := middleware.NewEditorValidator("secret")
	router := newRouter(s.service, validator)

	s.Run("editor routes need a token", func() {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/petitions/", `{}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/petitions/1/signatures", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("public routes stay open", func() {
		s.service.EXPECT().ListPetitions(gomock.Any()).Return(nil, nil)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/petitions", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("a valid token is accepted", func() {
		token, err := validator.Issue("editor", time.Hour, time.Now())
		s.Require().NoError(err)
		s.service.EXPECT().ListSignatures(gomock.Any(), int64(1)).Return([]*models.Signature{}, nil)

		req := testutil.WithBearer(testutil.NewJSONRequest(s.T(), http.MethodGet, "/petitions/1/signatures", nil), token)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`[]`, rr.Body.String())
	})
}
