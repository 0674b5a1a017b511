package registry

import "testing"

func FuzzSetAdd(f *testing.F) {
	for _, s := range []string{"facebook.com", "https://www.youtube.com/watch?v=x", "", "a@b", "WWW.X.Y."} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, site string) {
		s := NewSet(DefaultSites)
		before := s.Len()
		s.Add(site)
		s.Add(site)
		if s.Len() > before+1 {
			t.Fatalf("adding %q twice grew the set by %d", site, s.Len()-before)
		}
	})
}
