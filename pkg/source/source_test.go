package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
	}{
		{"12,345人", 12345},
		{"55.2%", 55.2},
		{" 3 ", 3},
		{"-1.5", -1.5},
	} {
		got, err := parseNumber(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := parseNumber("---")
	assert.Error(t, err)

	_, err = parseNumber("")
	assert.Error(t, err)
}

func TestStandingsFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<table id="standing">
  <tr><th>順位</th><th>チーム</th></tr>
  <tr><td>1</td><td><span class="dsktp">鹿島アントラーズ</span><span class="sp">鹿島</span></td></tr>
  <tr><td>2</td><td><span class="dsktp">サンフレッチェ広島</span><span class="sp">広島</span></td></tr>
</table>`)

	s := NewStandings(NewClient(0), srv.URL)
	rows, err := s.Fetch(context.Background(), 1, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "鹿島アントラーズ", rows[0].ClubName)
	assert.Equal(t, "鹿島", rows[0].ShortName)
	assert.Equal(t, 1, rows[0].Standing)
	assert.Equal(t, 1, rows[0].Division)
	assert.Equal(t, 2, rows[1].Standing)
}

func TestStandingsFetchMissingSeason(t *testing.T) {
	srv := newFixtureServer(t, `<p>no data for this season</p>`)

	s := NewStandings(NewClient(0), srv.URL)
	rows, err := s.Fetch(context.Background(), 1, 1990)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStatRankingsFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<ul class="ranking_list">
  <li><p class="team">横浜FM</p><div class="ranking_stats_01"><p>55.2%</p></div></li>
  <li><p class="team">川崎F</p><div class="ranking_stats_02"><p>54.8%</p></div></li>
</ul>`)

	s := NewStatRankings(NewClient(0), srv.URL)
	values, err := s.Fetch(context.Background(), 1, 2025, "ball_rate")
	require.NoError(t, err)
	require.Len(t, values, 2)

	assert.Equal(t, "横浜FM", values[0].ClubName)
	assert.InDelta(t, 55.2, values[0].Value, 1e-9)
	assert.InDelta(t, 54.8, values[1].Value, 1e-9)
}

func TestStatRankingsUnknownMetric(t *testing.T) {
	s := NewStatRankings(NewClient(0), "http://unused.invalid")
	_, err := s.Fetch(context.Background(), 1, 2025, "corner_kicks")
	assert.Error(t, err)
}

func TestRatingsFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<table class="statsTbl">
  <tr><th>順位</th><th>チーム</th><th>試合</th><th>値</th></tr>
  <tr><td>1</td><td><span class="dsktp">浦和レッズ</span></td><td>34</td><td>1.35</td></tr>
  <tr><td>2</td><td><span class="dsktp">FC東京</span></td><td>34</td><td>1.21</td></tr>
</table>
<table class="statsTbl">
  <tr><th>順位</th><th>チーム</th><th>試合</th><th>値</th></tr>
  <tr><td>1</td><td><span class="dsktp">FC東京</span></td><td>34</td><td>0.88</td></tr>
  <tr><td>2</td><td><span class="dsktp">浦和レッズ</span></td><td>34</td><td>1.02</td></tr>
</table>`)

	r := NewRatings(NewClient(0), srv.URL)
	rows, err := r.Fetch(context.Background(), 1, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Output follows the attack table's order.
	assert.Equal(t, "浦和レッズ", rows[0].ClubName)
	assert.InDelta(t, 1.35, rows[0].AttackRating, 1e-9)
	assert.InDelta(t, 1.02, rows[0].DefenseRating, 1e-9)
	assert.Equal(t, "FC東京", rows[1].ClubName)
	assert.InDelta(t, 0.88, rows[1].DefenseRating, 1e-9)
}

func TestRatingsFetchDropsOneTableClubs(t *testing.T) {
	srv := newFixtureServer(t, `
<table class="statsTbl">
  <tr><th></th><th></th><th></th><th></th></tr>
  <tr><td>1</td><td><span class="dsktp">浦和レッズ</span></td><td>34</td><td>1.35</td></tr>
  <tr><td>2</td><td><span class="dsktp">FC東京</span></td><td>34</td><td>1.21</td></tr>
</table>
<table class="statsTbl">
  <tr><th></th><th></th><th></th><th></th></tr>
  <tr><td>1</td><td><span class="dsktp">FC東京</span></td><td>34</td><td>0.88</td></tr>
</table>`)

	r := NewRatings(NewClient(0), srv.URL)
	rows, err := r.Fetch(context.Background(), 1, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "FC東京", rows[0].ClubName)
}

func TestRecentFormFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<table class="scoreTable01">
  <tr><th>順位</th><th>チーム</th><th>直近</th></tr>
  <tr>
    <td>1</td>
    <td><span class="embJ1_01">町田</span></td>
    <td>
      <img src="/img/common/ico_match01.png">
      <img src="/img/common/ico_match03.png">
      <img src="/img/common/ico_match02.png">
      <img src="/img/common/logo.png">
    </td>
  </tr>
</table>`)

	r := NewRecentForm(NewClient(0), srv.URL)
	rows, err := r.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "町田", rows[0].ClubName)
	assert.Equal(t, []int{3, 1, 0}, rows[0].Points)
}

func TestTransfersFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<article>
  <h3>セレッソ大阪</h3>
  <span class="embM emb_c_osaka"></span>
  <table class="transferTable">
    <tr><th>選手</th><th>前所属</th><th class="etc">備考</th></tr>
    <tr><td>選手A</td><td>U-18</td><td class="etc">トップ昇格</td></tr>
    <tr><td>選手B</td><td>他クラブ</td><td class="etc">完全移籍</td></tr>
    <tr><td>選手C</td><td>U-18</td><td class="etc">トップ昇格</td></tr>
  </table>
  <table class="transferTable">
    <tr><th>選手</th><th>移籍先</th><th class="etc">備考</th></tr>
    <tr><td>選手D</td><td>引退</td><td class="etc">トップ昇格</td></tr>
  </table>
</article>`)

	tr := NewTransfers(NewClient(0), srv.URL)
	rows, err := tr.Fetch(context.Background(), 1, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "セレッソ大阪", rows[0].ClubName)
	assert.Equal(t, "emb_c_osaka", rows[0].BadgeID)
	// Only the incoming table counts.
	assert.Equal(t, 2, rows[0].Promotions)
}

func TestTransfersFetchMissingSeason(t *testing.T) {
	srv := newFixtureServer(t, `<p>準備中</p>`)

	tr := NewTransfers(NewClient(0), srv.URL)
	rows, err := tr.Fetch(context.Background(), 1, 2000)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAttendanceFetch(t *testing.T) {
	srv := newFixtureServer(t, `
<table class="attendance-table">
  <tr><th>年度</th><th>節</th><th>日付</th><th>H</th><th>A</th><th>スコア</th><th>入場者数</th></tr>
  <tr class="bb"><td>2025</td><td>1</td><td>02/15</td><td>H</td><td>A</td><td>2-1</td><td>38,112</td></tr>
  <tr class="bb"><td>2025</td><td>3</td><td>03/01</td><td>H</td><td>A</td><td>0-0</td><td>25,004</td></tr>
  <tr class="bb"><td>2025</td><td>5</td><td>03/15</td><td>H</td><td>A</td><td>1-1</td><td></td></tr>
</table>`)

	a := NewAttendance(NewClient(0), srv.URL)
	crowds, err := a.Fetch(context.Background(), "14", 1, 2025)
	require.NoError(t, err)
	assert.Equal(t, []int{38112, 25004}, crowds)
}

func TestSocialSubscribers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "statistics", r.URL.Query().Get("part"))
		assert.Equal(t, "UCabc", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"items":[{"id":"UCabc","statistics":{"subscriberCount":"123456"}}]}`)
	}))
	defer srv.Close()

	s := NewSocial(NewClient(0), srv.URL, "test-key")
	count, err := s.Subscribers(context.Background(), "UCabc")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), count)
}

func TestSocialSubscribersRequiresKey(t *testing.T) {
	s := NewSocial(NewClient(0), "http://unused.invalid", "")
	_, err := s.Subscribers(context.Background(), "UCabc")
	assert.Error(t, err)
}

func TestSocialSubscribersUnknownChannel(t *testing.T) {
	srv := newFixtureServer(t, `{"items":[]}`)

	s := NewSocial(NewClient(0), srv.URL, "test-key")
	_, err := s.Subscribers(context.Background(), "UCmissing")
	assert.Error(t, err)
}

func TestClubNewsActivity(t *testing.T) {
	now := time.Now()
	feed := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>club news</title>
<item><title>recent</title><pubDate>%s</pubDate></item>
<item><title>stale</title><pubDate>%s</pubDate></item>
<item><title>undated</title></item>
</channel></rss>`,
		now.Add(-2*time.Hour).Format(time.RFC1123Z),
		now.Add(-90*24*time.Hour).Format(time.RFC1123Z))
	srv := newFixtureServer(t, feed)

	n := NewClubNews(NewClient(0), 30*24*time.Hour)
	count, err := n.Activity(context.Background(), srv.URL)
	require.NoError(t, err)
	// The recent and the undated item count, the stale one does not.
	assert.Equal(t, 2, count)
}

func TestClientPaceRespectsContext(t *testing.T) {
	c := NewClient(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	c.Pace(ctx)
	assert.Less(t, time.Since(start), time.Second)
}
