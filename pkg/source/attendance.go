package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// attendanceCol is the per-match crowd figure's position in the data site's
// result table.
const attendanceCol = 6

// Attendance fetches per-club home crowd figures from the league data site.
type Attendance struct {
	client  *Client
	baseURL string
}

func NewAttendance(client *Client, baseURL string) *Attendance {
	return &Attendance{client: client, baseURL: baseURL}
}

// Fetch returns the crowd figure of every home match the given club played
// in a season. teamID is the data site's own identifier for the club, not
// anything from the league site. An empty slice means the site has no rows
// for that club and season.
func (a *Attendance) Fetch(ctx context.Context, teamID string, division, year int) ([]int, error) {
	params := url.Values{}
	params.Set("competition_year", strconv.Itoa(year))
	params.Set("competition_frame", strconv.Itoa(division))
	params.Set("teamIds", teamID)
	params.Set("teamType", "1") // home matches only
	params.Set("teamFlag", "0")

	doc, err := a.client.getDocument(ctx, a.baseURL, params)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.attendance-table")
	if table.Length() == 0 {
		return nil, nil
	}

	var crowds []int
	table.Find("tr.bb").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() <= attendanceCol {
			return
		}
		n, err := parseNumber(cells.Eq(attendanceCol).Text())
		if err != nil {
			return
		}
		crowds = append(crowds, int(n))
	})
	return crowds, nil
}
