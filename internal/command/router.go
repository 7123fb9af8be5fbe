// Package command matches user text against the assistant's canned intents
// and runs their side effects. Unmatched text falls through to generation.
package command

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/omkarw/bestbuddy/internal/langid"
)

// Intent is the classified purpose of a matched input.
type Intent string

const (
	IntentOpenApp     Intent = "open_app"
	IntentOpenWebsite Intent = "open_website"
	IntentGetTime     Intent = "get_time"
	IntentPlayMusic   Intent = "play_music"
)

// Result is a matched command: the intent, its optional target, and the
// English reply describing what happened.
type Result struct {
	Intent Intent
	Target string
	Reply  string
}

// Keyword lists deliberately over-match: each carries English plus
// Devanagari and transliterated spellings of the same word, since speech
// recognition is inconsistent about script.
var (
	whatsappKeywords = []string{"open whatsapp", "whatsapp", "व्हाट्सअॅप", "व्हाट्सएप", "व्हाट्सॅप", "व्हाट्सअप", "व्हाट्स"}
	youtubeKeywords  = []string{"open youtube", "youtube", "यूट्यूब"}
	timeKeywords     = []string{"what's the time", "time", "समय", "वेळ", "कितना बजे", "कितने बजे", "आत्ता वेळ"}
	musicKeywords    = []string{"play music", "play song", "music", "संगीत", "गाना", "गाणी", "गाण"}
)

const (
	whatsappURL     = "https://web.whatsapp.com"
	youtubeURL      = "https://www.youtube.com"
	youtubeMusicURL = "https://music.youtube.com"
)

// Router matches text against the fixed intent rules in priority order.
type Router struct {
	actions  PlatformActions
	musicDir string
	now      func() time.Time
}

func NewRouter(actions PlatformActions) *Router {
	musicDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		musicDir = filepath.Join(home, "Music")
	}
	return &Router{actions: actions, musicDir: musicDir, now: time.Now}
}

// Match tries the intent rules against text. The bool is false when no rule
// matched, which signals the caller to fall through to generation. A matched
// intent always produces a reply, even when its side effect failed; the
// wording distinguishes the two.
func (r *Router) Match(text string, lang langid.Lang) (Result, bool) {
	if strings.TrimSpace(text) == "" {
		return Result{}, false
	}
	q := strings.ToLower(text)

	if containsAny(q, whatsappKeywords) {
		return r.openApp("WhatsApp", whatsappURL), true
	}
	if containsAny(q, youtubeKeywords) {
		return r.openApp("YouTube", youtubeURL), true
	}
	if containsAny(q, timeKeywords) {
		return Result{Intent: IntentGetTime, Reply: r.tellTime(lang)}, true
	}
	if containsAny(q, musicKeywords) {
		return r.playMusic(), true
	}
	if url, ok := urlCandidate(q); ok {
		return r.openWebsite(url), true
	}

	return Result{}, false
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// urlCandidate scans whitespace-delimited tokens for the first one that
// looks like a domain: contains a dot and is longer than 3 characters.
func urlCandidate(q string) (string, bool) {
	for _, tok := range strings.Fields(q) {
		if strings.Contains(tok, ".") && len(tok) > 3 {
			if !strings.HasPrefix(tok, "http://") && !strings.HasPrefix(tok, "https://") {
				tok = "https://" + tok
			}
			return tok, true
		}
	}
	return "", false
}

func (r *Router) openApp(name, url string) Result {
	res := Result{Intent: IntentOpenApp, Target: strings.ToLower(name)}
	if err := r.actions.OpenURL(url); err != nil {
		log.Printf("command: open %s failed: %v", name, err)
		res.Reply = fmt.Sprintf("I couldn't open %s.", name)
		return res
	}
	res.Reply = fmt.Sprintf("Opening %s.", name)
	return res
}

func (r *Router) openWebsite(url string) Result {
	res := Result{Intent: IntentOpenWebsite, Target: url}
	if err := r.actions.OpenURL(url); err != nil {
		log.Printf("command: open %s failed: %v", url, err)
		res.Reply = "I couldn't open that website."
		return res
	}
	res.Reply = fmt.Sprintf("Opening %s", url)
	return res
}

// tellTime answers in the user's language directly; the orchestrator skips
// translation for text that is already localized.
func (r *Router) tellTime(lang langid.Lang) string {
	now := r.now().Format("03:04 PM")
	switch lang {
	case langid.LangHindi:
		return "समय है " + now
	case langid.LangMarathi:
		return "सध्याचा वेळ " + now
	default:
		return fmt.Sprintf("The current time is %s.", now)
	}
}

func (r *Router) playMusic() Result {
	res := Result{Intent: IntentPlayMusic}
	if r.musicDir != "" {
		if info, err := os.Stat(r.musicDir); err == nil && info.IsDir() {
			if err := r.actions.OpenFolder(r.musicDir); err == nil {
				res.Reply = "Opening your Music folder."
				return res
			}
			log.Printf("command: open music folder failed, falling back to YouTube Music")
		}
	}
	if err := r.actions.OpenURL(youtubeMusicURL); err != nil {
		log.Printf("command: open YouTube Music failed: %v", err)
		res.Reply = "I couldn't play music right now."
		return res
	}
	res.Reply = "Opening YouTube Music."
	return res
}
