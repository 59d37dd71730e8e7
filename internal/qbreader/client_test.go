package qbreader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/thetaquiz/internal/retry"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api", Timeout: time.Second})
}

func TestRandomBonuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/random-bonus", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "8", q.Get("number"))
		assert.Equal(t, []string{"8", "9"}, q["difficulties"])
		assert.Equal(t, "Science", q.Get("categories"))
		assert.Equal(t, "Biology", q.Get("subcategories"))
		assert.Equal(t, "true", q.Get("threePartBonuses"))
		assert.Equal(t, "true", q.Get("standardOnly"))
		assert.Equal(t, "true", q.Get("hasDifficultyModifiers"))
		assert.Equal(t, "thetaquiz", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bonuses":[{
			"_id":"abc","leadin":"<b>Lead</b>","parts":["p1","p2","p3"],
			"answers":["<u>a1</u>","a2","a3"],"difficultyModifiers":["e","m","h"],
			"set":{"name":"ACF Fall","year":2021},"packet":{"number":3},"number":7
		}]}`))
	})

	bonuses, err := c.RandomBonuses(context.Background(), Query{
		Difficulties:           []int{8, 9},
		Categories:             []string{"Science"},
		Subcategories:          []string{"Biology"},
		Number:                 8,
		ThreePartOnly:          true,
		StandardOnly:           true,
		HasDifficultyModifiers: true,
	})
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	b := bonuses[0]
	assert.Equal(t, "abc", b.Key())
	assert.Equal(t, "Lead", b.DisplayLeadin())
	assert.Equal(t, 3, b.Usable())
	assert.True(t, b.HasModifiers())
	assert.Equal(t, 2021, b.Set.Year)
}

func TestRandomBonuses_EmptyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bonuses":[]}`))
	})
	bonuses, err := c.RandomBonuses(context.Background(), Query{Number: 1})
	require.NoError(t, err)
	assert.Empty(t, bonuses)
}

func TestQueryValues_OmitsUnset(t *testing.T) {
	v := Query{Difficulties: []int{3}}.Values()
	assert.Equal(t, "1", v.Get("number"))
	assert.Empty(t, v.Get("categories"))
	assert.Empty(t, v.Get("hasDifficultyModifiers"))
	assert.Empty(t, v.Get("threePartBonuses"))
}

func TestCheckAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-answer", r.URL.Path)
		assert.Equal(t, "<b>Mitochondria</b>", r.URL.Query().Get("answerline"))
		assert.Equal(t, "mitochondrion", r.URL.Query().Get("givenAnswer"))
		_, _ = w.Write([]byte(`{"directive":"accept"}`))
	})
	d, err := c.CheckAnswer(context.Background(), "<b>Mitochondria</b>", "mitochondrion")
	require.NoError(t, err)
	assert.Equal(t, "accept", d.Directive)
}

func TestStatusErrors(t *testing.T) {
	var code atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(code.Load()))
	})

	code.Store(http.StatusBadRequest)
	_, err := c.RandomBonuses(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)

	code.Store(http.StatusServiceUnavailable)
	_, err = c.RandomBonuses(context.Background(), Query{})
	require.ErrorAs(t, err, &se)
	assert.False(t, retry.IsPermanent(err))

	code.Store(http.StatusTooManyRequests)
	_, err = c.RandomBonuses(context.Background(), Query{})
	assert.False(t, retry.IsPermanent(err))
}

func TestMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bonuses":`))
	})
	_, err := c.RandomBonuses(context.Background(), Query{})
	assert.Error(t, err)
}

func TestTimeoutIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := c.CheckAnswer(context.Background(), "a", "b")
	require.Error(t, err)
	assert.False(t, retry.IsPermanent(err))
}
