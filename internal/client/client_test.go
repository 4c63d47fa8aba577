package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dongnecli/dongne/internal/errors"
	"github.com/dongnecli/dongne/internal/region"
)

func TestAskSendsCoords(t *testing.T) {
	var got AskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chatbot/ask", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(AskResponse{
			Message: "곧 도착해요",
			Meta: &AskMeta{
				Intent:       "bus",
				BusPositions: []BusPositionRecord{{Lat: "37.40", Lng: "126.93", VehicleID: "v1"}},
			},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	resp, err := c.Ask(context.Background(), AskRequest{
		UserQuestion: "버스 어디쯤이야?",
		Coords:       &GridCoords{NX: 60, NY: 121},
	})
	require.NoError(t, err)

	assert.Equal(t, "버스 어디쯤이야?", got.UserQuestion)
	require.NotNil(t, got.Coords)
	assert.Equal(t, 60, got.Coords.NX)

	assert.Equal(t, "곧 도착해요", resp.Message)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "bus", resp.Meta.Intent)
}

func TestAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Ask(context.Background(), AskRequest{UserQuestion: "질문"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindServer, apperrors.Classify(err))
}

func TestCitiesBuildsTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/region/cities", r.URL.Path)
		_ = json.NewEncoder(w).Encode(CitiesResponse{Cities: []CityRecord{
			{Name: "경기도", Seconds: []CitySecondRecord{
				{Name: "수원시 장안구", Thirds: []string{"파장동"}},
			}},
			{Name: "울릉도"},
		}})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	tree, err := c.Cities(context.Background())
	require.NoError(t, err)

	require.Len(t, tree.Provinces, 2)
	gg, ok := tree.Lookup("경기도")
	require.True(t, ok)
	assert.Equal(t, region.CategoryOrdinary, gg.Category())
	require.Len(t, gg.Seconds, 1)
	assert.Equal(t, []string{"파장동"}, gg.Seconds[0].Thirds)

	island, ok := tree.Lookup("울릉도")
	require.True(t, ok)
	assert.Equal(t, region.CategoryNoChildren, island.Category())
}

func TestGeocodeRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/region/coords", r.URL.Path)

		var req CoordsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "경기도", req.First)

		_ = json.NewEncoder(w).Encode(GeoBundle{GridX: 60, GridY: 121, Lat: 37.29, Lng: 127.01})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	bundle, err := c.Geocode(context.Background(), CoordsRequest{
		First: "경기도", Second: "수원시 장안구", Third: "파장동",
	})
	require.NoError(t, err)
	assert.Equal(t, 60, bundle.GridX)
	assert.Equal(t, 121, bundle.GridY)
}

func TestUltraShortForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather/ultra-short-forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "60", q.Get("nx"))
		assert.Equal(t, "121", q.Get("ny"))
		assert.Equal(t, "20260830", q.Get("base_date"))
		assert.Equal(t, "1430", q.Get("base_time"))

		_, _ = w.Write([]byte(`{
			"response": {
				"header": {"resultCode": "00", "resultMsg": "OK"},
				"body": {"items": {"item": [
					{"category": "T1H", "fcstTime": "1500", "fcstValue": "29"}
				]}, "totalCount": 1}
			}
		}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	items, err := c.UltraShortForecast(context.Background(), 60, 121, "20260830", "1430")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "T1H", items[0].Category)
	assert.Equal(t, "29", items[0].FcstValue)
}

func TestDecodeFailureClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Ask(context.Background(), AskRequest{UserQuestion: "질문"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDecode, apperrors.Classify(err))
}
