package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"freelansim-bot/internal/models"
)

var ErrNotAuthorized = errors.New("profile: session is not authorized")

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/74.0.3729.169 Safari/537.36"

// Session is an authenticated marketplace session driven by a browser
// cookie export. It backs the auto-answer feature.
type Session struct {
	http       *http.Client
	rootURL    string
	authorized bool
}

// Info is what the personal page exposes about the account.
type Info struct {
	Username           string
	FirstName          string
	LastName           string
	Location           string
	About              string
	Avatar             string
	Balance            int
	AvailableResponses int
}

func NewSession(rootURL string, timeout time.Duration) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		http:    &http.Client{Jar: jar, Timeout: timeout},
		rootURL: rootURL,
	}, nil
}

// LoadCookies reads a browser cookie export (a JSON array of name/value
// objects), installs the session cookie and verifies it against the
// personal page. It reports whether the session is usable.
func (s *Session) LoadCookies(ctx context.Context, path string) bool {
	log.Println("Start cookies loading...")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to load cookies: %v", err)
		return false
	}

	var exported []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &exported); err != nil {
		log.Printf("Failed to parse cookies file: %v", err)
		return false
	}

	var sessionID string
	for _, cookie := range exported {
		if cookie.Name == "_session_id" {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		log.Println("Failed to load cookies: no _session_id")
		return false
	}

	root, err := url.Parse(s.rootURL)
	if err != nil {
		log.Printf("Failed to parse root URL: %v", err)
		return false
	}
	s.http.Jar.SetCookies(root, []*http.Cookie{{Name: "_session_id", Value: sessionID}})

	if _, err := s.AuthCheck(ctx); err != nil {
		log.Printf("Failed to load cookies: %v", err)
		return false
	}

	s.authorized = true
	log.Println("Cookies successfully loaded!")
	return true
}

func (s *Session) Authorized() bool {
	return s.authorized
}

// Jar exposes the session cookies so other clients can ride the authorized
// session.
func (s *Session) Jar() http.CookieJar {
	return s.http.Jar
}

// AuthCheck scrapes the personal page. An anonymous session gets the public
// page without the avatar form, which reads as ErrNotAuthorized.
func (s *Session) AuthCheck(ctx context.Context) (*Info, error) {
	doc, err := s.getDocument(ctx, s.rootURL+"/my/personal")
	if err != nil {
		return nil, err
	}

	form := doc.Find("form.form_avatar")
	if form.Length() == 0 {
		return nil, ErrNotAuthorized
	}

	info := &Info{}

	if action, ok := form.Attr("action"); ok {
		parts := strings.Split(action, "/")
		if len(parts) > 2 {
			info.Username = parts[2]
		}
	}
	if src, ok := form.Find("img.avatario").Attr("src"); ok && !strings.HasPrefix(src, "/assets/default") {
		info.Avatar = src
	}

	info.FirstName, _ = doc.Find(`input[name="freelancer[first_name]"]`).Attr("value")
	info.LastName, _ = doc.Find(`input[name="freelancer[last_name]"]`).Attr("value")
	info.Location, _ = doc.Find(`input[name="freelancer[location]"]`).Attr("value")
	info.About = strings.TrimSpace(doc.Find(`textarea[name="freelancer[self_about]"]`).Text())

	balance := doc.Find("ul.menu_user-settings span.count").First().Text()
	if fields := strings.Fields(balance); len(fields) > 0 {
		info.Balance, _ = strconv.Atoi(fields[0])
	}

	responses := doc.Find("a.subscription small.active").First().Text()
	if responses != "Не активна" {
		if fields := strings.Fields(responses); len(fields) > 1 {
			info.AvailableResponses, _ = strconv.Atoi(fields[1])
		}
	}

	return info, nil
}

// Answer posts a reply comment to a task on behalf of the authorized
// account. The CSRF token comes from the task page itself.
func (s *Session) Answer(ctx context.Context, task models.Task, text string) error {
	if !s.authorized {
		return ErrNotAuthorized
	}

	doc, err := s.getDocument(ctx, task.URL)
	if err != nil {
		return err
	}

	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok {
		return fmt.Errorf("no csrf token on task page %s", task.URL)
	}

	form := url.Values{}
	form.Set("utf8", "✓")
	form.Set("task_comment[body]", text)
	form.Set("button", "")

	commentURL := fmt.Sprintf("%s/tasks/%d/task_comments", s.rootURL, task.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, commentURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", task.URL)
	req.Header.Set("X-CSRF-Token", token)
	req.Header.Set("Accept", "*/*;q=0.5, text/javascript, application/javascript, "+
		"application/ecmascript, application/x-ecmascript")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not post answer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("answer rejected with status %d", resp.StatusCode)
	}

	log.Printf("Answered task %d", task.ID)
	return nil
}

func (s *Session) getDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", pageURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
