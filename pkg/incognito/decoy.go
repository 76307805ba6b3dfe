package incognito

import (
	"errors"
	"math/rand/v2"
	"net/url"

	"github.com/TypeDummying/AIuminum/pkg/jar"
)

var decoySites = []string{
	"https://www.wikipedia.org",
	"https://www.weather.com",
	"https://www.example.com",
	"https://www.openstreetmap.org",
	"https://www.gutenberg.org",
}

// AddDecoyActivity records visits to benign sites, each with one to three
// random cookies, to blur the real browsing pattern. visits <= 0 picks a
// random count between one and five.
func (s *Session) AddDecoyActivity(visits int) error {
	if visits <= 0 {
		visits = 1 + rand.IntN(5)
	}
	for i := 0; i < visits; i++ {
		site := decoySites[rand.IntN(len(decoySites))]
		if err := s.AddToHistory(site); err != nil {
			return err
		}
		u, _ := url.Parse(site)
		for c := 1 + rand.IntN(3); c > 0; c-- {
			name, err := randomString(8)
			if err != nil {
				return err
			}
			value, err := randomString(16)
			if err != nil {
				return err
			}
			err = s.SetCookie(u.Hostname(), name, value)
			if err != nil && !errors.Is(err, jar.ErrCookieRejected) {
				return err
			}
		}
	}
	s.log.Debug("session %s: %d decoy visits recorded", s.id, visits)
	return nil
}
