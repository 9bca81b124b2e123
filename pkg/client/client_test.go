package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipdash-api/pkg/table"
)

type row struct {
	ID string `json:"id"`
}

func testConfig() table.Config {
	return table.Config{
		Entity: "shipments",
		Columns: []table.Column{
			{ID: "orderId", Header: "Order", Width: 1, DefaultVisible: true, Sortable: true},
			{ID: "destination", Header: "Destination", Width: 1, DefaultVisible: true, Sortable: true, SortField: "destinationState"},
			{ID: "tracking", Header: "Tracking", Width: 1, DefaultVisible: true},
		},
		DefaultSort:     table.Sort{ColumnID: "orderId", Direction: table.Desc},
		DefaultPageSize: 50,
		PageSizes:       []int{25, 50, 100},
	}
}

func TestListQuery_Values(t *testing.T) {
	q := ListQuery{
		ClientID:  "c1",
		Limit:     25,
		StartDate: "2024-01-01",
		Status:    []string{"delivered", " ", "in_transit"},
		Carrier:   []string{"UPS"},
		Search:    "  1Z  ",
	}
	v := q.Values()
	assert.Equal(t, "delivered,in_transit", v.Get("status"))
	assert.Equal(t, "UPS", v.Get("carrier"))
	assert.Equal(t, "1Z", v.Get("search"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.False(t, v.Has("offset"), "offset 0 se omite")
	assert.False(t, v.Has("endDate"))
	assert.False(t, v.Has("channel"))
}

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shipments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "UPS,FedEx", r.URL.Query().Get("carrier"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"a"},{"id":"b"}],"totalCount":7,"carriers":["FedEx","UPS"]}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("tok"))
	page, err := ListPage[row](context.Background(), c, "/api/shipments", ListQuery{Carrier: []string{"UPS", "FedEx"}})
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a"}, {ID: "b"}}, page.Data)
	assert.Equal(t, 7, page.TotalCount)
	assert.Equal(t, []string{"FedEx", "UPS"}, page.Carriers)
}

func TestClient_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":"INVALID_PARAMS","message":"sortField no permitido"}`)
	}))
	defer srv.Close()

	_, err := ListPage[row](context.Background(), New(srv.URL), "/api/shipments", ListQuery{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PARAMS", apiErr.Code)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestFetcher_QueryDesdeEstado(t *testing.T) {
	f := NewFetcher[row](New("http://x"), "/api/shipments", testConfig(), ListQuery{ClientID: "c1", Limit: 999, SortField: "cost"})

	q, err := f.Query()
	require.NoError(t, err)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, "orderId", q.SortField)
	assert.Equal(t, "desc", q.SortDirection)
	assert.Equal(t, "c1", q.ClientID)

	require.NoError(t, f.SetPage(2, 50))
	assert.True(t, f.ToggleSort("destination"))
	assert.False(t, f.ToggleSort("tracking"))
	q, err = f.Query()
	require.NoError(t, err)
	assert.Equal(t, 0, q.Offset, "cambiar el orden vuelve a la página 0")
	assert.Equal(t, "destinationState", q.SortField)

	require.NoError(t, f.SetPage(3, 50))
	f.SetFilters(ListQuery{ClientID: "c1", Carrier: []string{"UPS"}})
	q, err = f.Query()
	require.NoError(t, err)
	assert.Equal(t, 0, q.Offset, "cambiar filtros vuelve a la página 0")
	assert.Equal(t, []string{"UPS"}, q.Carrier)

	assert.Error(t, f.SetPage(0, 30))
}

func TestFetcher_SoloAplicaLaGeneracionVigente(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		if offset == "" {
			// la primera página queda colgada hasta que el cliente la cancele
			started <- struct{}{}
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		fmt.Fprintf(w, `{"data":[{"id":"o%s"}],"totalCount":120}`, offset)
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher[row](New(srv.URL), "/api/shipments", testConfig(), ListQuery{})

	type outcome struct {
		res Result[row]
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := f.Fetch(context.Background())
		first <- outcome{res, err}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("la primera petición no llegó al servidor")
	}
	assert.True(t, f.Result().Loading)

	require.NoError(t, f.SetPage(1, 50))
	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "o50"}}, res.Rows)
	assert.Equal(t, uint64(2), res.Generation)
	assert.Equal(t, 3, res.PageCount)

	old := <-first
	assert.ErrorIs(t, old.err, ErrSuperseded)

	cur := f.Result()
	assert.Equal(t, uint64(2), cur.Generation, "la respuesta vieja no pisa la nueva")
	assert.Equal(t, []row{{ID: "o50"}}, cur.Rows)
	assert.False(t, cur.Loading)
	assert.NoError(t, cur.Err)
}
