package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/mduret/dvdtheque-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type dvdResponse struct {
	ID     string `json:"id"`
	Title  string `json:"titre"`
	Year   *int   `json:"annee"`
	Lent   bool   `json:"prete"`
	LentTo string `json:"preteA"`
}

type dvdListResponse struct {
	DVDs       []dvdResponse `json:"dvds"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

func TestDVDRoutes_RequireAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("no authorization header", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/dvds"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "token manquant")
	})

	t.Run("garbage bearer token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds"), nil, "garbage")
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "token invalide")
	})

	t.Run("valid token proceeds", func(t *testing.T) {
		_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds"), nil, token)
		resp := doRequest(t, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDVDHandler_CRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	var created dvdResponse

	t.Run("create", func(t *testing.T) {
		year := 1963
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/dvds"), map[string]any{
			"titre":       "Les Tontons flingueurs",
			"realisateur": "Georges Lautner",
			"annee":       year,
			"acteurs":     []string{"Lino Ventura", "Bernard Blier"},
		}, token)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		testutil.AssertJSONResponse(t, resp, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Les Tontons flingueurs", created.Title)
		require.NotNil(t, created.Year)
		assert.Equal(t, year, *created.Year)
	})

	t.Run("create without title", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/dvds"), map[string]any{
			"realisateur": "Personne",
		}, token)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "titre requis")
	})

	t.Run("create with invalid year", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/dvds"), map[string]any{
			"titre": "Préhistoire",
			"annee": 1700,
		}, token)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "annee invalide")
	})

	t.Run("get", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds/"+created.ID), nil, token)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got dvdResponse
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("update", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/dvds/"+created.ID), map[string]any{
			"titre":  "Les Tontons flingueurs",
			"prete":  true,
			"preteA": "Bruno",
		}, token)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got dvdResponse
		testutil.AssertJSONResponse(t, resp, &got)
		assert.True(t, got.Lent)
		assert.Equal(t, "Bruno", got.LentTo)
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/dvds/"+created.ID), nil, token)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusOK, "DVD supprime")
	})

	t.Run("get after delete", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds/"+created.ID), nil, token)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "DVD non trouve")
	})
}

func TestDVDHandler_OwnerIsolation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	alice, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, brunoToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	dvd := testutil.NewDVDBuilder().WithOwner(alice).WithTitle("Le secret d'Alice").Build(t, ts.DB.DB)
	url := ts.APIURL("/dvds/" + dvd.ID.String())

	t.Run("get", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, brunoToken)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "DVD non trouve")
	})

	t.Run("update", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, url, map[string]any{"titre": "Volé"}, brunoToken)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "DVD non trouve")
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, url, nil, brunoToken)
		resp := doRequest(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "DVD non trouve")
	})

	t.Run("list never leaks the record", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds"), nil, brunoToken)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list dvdListResponse
		testutil.AssertJSONResponse(t, resp, &list)
		assert.Empty(t, list.DVDs)
		assert.EqualValues(t, 0, list.Total)
	})
}

func TestDVDHandler_EmptyListIsAnArray(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/dvds"), nil, token)
	resp := doRequest(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := testutil.ReadBody(t, resp)
	assert.Contains(t, body, `"dvds":[]`, "an empty collection is an array on the wire")
	assert.NotContains(t, body, `"dvds":null`)
}

func TestDVDHandler_ListPagination(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.SeedDVDs(t, ts.DB.DB, user, 45)

	t.Run("page one of thirty", func(t *testing.T) {
		url := ts.APIURL("/dvds?page=1&limit=30")
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, token)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list dvdListResponse
		testutil.AssertJSONResponse(t, resp, &list)
		assert.Len(t, list.DVDs, 30)
		assert.EqualValues(t, 45, list.Total)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 2, list.TotalPages)
	})

	t.Run("oversized limit clamped", func(t *testing.T) {
		url := ts.APIURL("/dvds?page=1&limit=10000")
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, token)
		resp := doRequest(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list dvdListResponse
		testutil.AssertJSONResponse(t, resp, &list)
		assert.Len(t, list.DVDs, 45, "100-cap covers the whole collection")
	})
}

func TestDVDHandler_Search(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	for i, title := range []string{"La Haine", "Le Samouraï", "Samouraï d'automne"} {
		testutil.NewDVDBuilder().WithOwner(user).WithTitle(fmt.Sprintf("%s %d", title, i)).Build(t, ts.DB.DB)
	}

	url := ts.APIURL("/dvds/search?q=samoura%C3%AF")
	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, url, nil, token)
	resp := doRequest(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dvdListResponse
	testutil.AssertJSONResponse(t, resp, &list)
	assert.Len(t, list.DVDs, 2)
	assert.EqualValues(t, 2, list.Total)
}
