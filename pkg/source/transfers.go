package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// promotionLabel marks a roster move where an academy player joined the
// first team.
const promotionLabel = "トップ昇格"

// TransferRow is one club's youth promotion count for a season.
type TransferRow struct {
	ClubName string
	// BadgeID is the emblem class suffix the league site attaches to every
	// club. It survives official renames, so multi-season joins use it
	// instead of the display name.
	BadgeID    string
	Promotions int
}

// Transfers fetches per-club roster move pages from the league site and
// counts academy promotions.
type Transfers struct {
	client  *Client
	baseURL string
}

func NewTransfers(client *Client, baseURL string) *Transfers {
	return &Transfers{client: client, baseURL: baseURL}
}

// Fetch returns academy promotion counts for one division and season. An
// empty slice means the site has no transfer page for that season.
func (t *Transfers) Fetch(ctx context.Context, division, year int) ([]TransferRow, error) {
	doc, err := t.client.getDocument(ctx, fmt.Sprintf("%s/special/transfer/%d/j%d", t.baseURL, year, division), nil)
	if err != nil {
		return nil, err
	}

	articles := doc.Find("article")
	if articles.Length() == 0 {
		return nil, nil
	}

	var rows []TransferRow
	articles.Each(func(_ int, article *goquery.Selection) {
		name := strings.TrimSpace(article.Find("h3").First().Text())
		if name == "" {
			return
		}

		badgeID := badgeIdentifier(article.Find("span.embM").First())

		// Each article carries two transfer tables, incoming first and
		// outgoing second. Promotions only ever appear in the incoming one.
		incoming := article.Find("table.transferTable").First()
		promotions := 0
		incoming.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 { // header
				return
			}
			if strings.TrimSpace(tr.Find("td.etc").Text()) == promotionLabel {
				promotions++
			}
		})

		rows = append(rows, TransferRow{ClubName: name, BadgeID: badgeID, Promotions: promotions})
	})
	return rows, nil
}

// badgeIdentifier extracts the club-specific class from an emblem span,
// skipping the shared "embM" marker class.
func badgeIdentifier(span *goquery.Selection) string {
	class, ok := span.Attr("class")
	if !ok {
		return ""
	}
	for _, c := range strings.Fields(class) {
		if c != "embM" {
			return c
		}
	}
	return ""
}
