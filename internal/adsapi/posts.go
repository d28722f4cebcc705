package adsapi

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Post is one page post, trimmed to what the assistant presents to the user.
type Post struct {
	ID           string `json:"id"`
	CreatedTime  string `json:"created_time"`
	Excerpt      string `json:"excerpt"`
	MediaURL     string `json:"media_url,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

const excerptMaxRunes = 50

// excerpt clamps a post message to its first 50 runes.
func excerpt(msg string) string {
	if utf8.RuneCountInString(msg) <= excerptMaxRunes {
		return msg
	}
	r := []rune(msg)
	return string(r[:excerptMaxRunes]) + "..."
}

type rawPost struct {
	ID           string `json:"id"`
	CreatedTime  string `json:"created_time"`
	Message      string `json:"message"`
	FullPicture  string `json:"full_picture"`
	PermalinkURL string `json:"permalink_url"`
}

type postsPage struct {
	Data   []rawPost `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// FetchPosts lists the page's posts created between since and until, oldest
// request order preserved as returned by the platform. Pagination cursors
// are followed until exhausted; a failed continuation page truncates the
// result rather than failing the whole fetch, since partial history is still
// useful to present.
func (c *Client) FetchPosts(ctx context.Context, pageID string, since, until time.Time) ([]Post, error) {
	const op = "adsapi.FetchPosts"

	var (
		page   postsPage
		apiErr graphError
	)
	res, err := c.req(ctx).
		SetQueryParams(map[string]string{
			"fields": "id,created_time,message,full_picture,permalink_url",
			"since":  since.Format(time.RFC3339),
			"until":  until.Format(time.RFC3339),
		}).
		SetResult(&page).
		SetError(&apiErr).
		Get("/" + pageID + "/posts")
	if cerr := checkResponse(op, res, err, &apiErr); cerr != nil {
		return nil, cerr
	}

	posts := appendPosts(nil, page.Data)
	next := page.Paging.Next
	for next != "" {
		page = postsPage{}
		apiErr = graphError{}
		// paging.next is an absolute, pre-signed URL.
		res, err = c.http.R().
			SetContext(ctx).
			SetResult(&page).
			SetError(&apiErr).
			Get(next)
		if cerr := checkResponse(op, res, err, &apiErr); cerr != nil {
			break
		}
		if len(page.Data) == 0 {
			break
		}
		posts = appendPosts(posts, page.Data)
		next = page.Paging.Next
	}
	return posts, nil
}

func appendPosts(dst []Post, raw []rawPost) []Post {
	for _, p := range raw {
		created := p.CreatedTime
		if strings.TrimSpace(created) == "" {
			created = "N/A"
		}
		dst = append(dst, Post{
			ID:           p.ID,
			CreatedTime:  created,
			Excerpt:      excerpt(p.Message),
			MediaURL:     p.FullPicture,
			PermalinkURL: p.PermalinkURL,
		})
	}
	return dst
}
