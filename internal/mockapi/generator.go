package mockapi

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/adapter/source/api"
	"github.com/mmcdole/reel/internal/domain"
)

// Defaults for generated data.
const (
	DefaultPages           = 5
	DefaultPageSize        = 20
	DefaultCommentsPerClip = 40
)

var idSpace = uuid.MustParse("6f1c8a2e-4b7d-4e55-9a43-0c2f5d1e7b90")

var (
	coverSizes = []int{600, 700, 550, 650, 720, 580, 640, 620, 680}

	videoURLs = []string{
		"https://www.w3schools.com/html/mov_bbb.mp4",
		"https://www.w3schools.com/html/movie.mp4",
		"https://interactive-examples.mdn.mozilla.net/media/cc0-videos/flower.mp4",
		"https://interactive-examples.mdn.mozilla.net/media/cc0-videos/flower.webm",
	}

	titles = []string{
		"You have to see this place",
		"Today's vlog",
		"The easiest dinner you'll make all week",
		"This trick is way too useful",
		"A day in my life",
		"Found something very cool",
		"Best moments from the trip",
		"Learn this and you're a pro",
		"The most relaxing afternoon",
		"Don't skip this one",
	}

	descriptions = []string{
		"Seriously worth a try #recommend #share",
		"Like and follow if you enjoyed it",
		"My latest hidden gem",
		"Beginner friendly, easy to pick up",
		"Stay happy every day",
		"Had to share this with you all",
		"Life needs a little ceremony",
		"A calm day, feeling good",
		"Come try it with me",
		"Too cool not to recommend",
	}

	authorNames = []string{
		"Travel Zhang", "Foodie Li", "Photographer Wang", "Lifestyle Zhao",
		"Vlogger Chen", "Shop Hunters", "Idea Studio", "Daily Notes",
		"Skill Share", "Joy Factory",
	}

	commentContents = []string{
		"So good!", "Love it", "This is amazing", "Nailed it",
		"I can't stop laughing", "Learned something", "Impressive", "I want to try this",
		"Saved!", "Followed", "Never seen this before", "So soothing",
		"Big fan", "Thanks for sharing", "Way too cool", "Oh my",
		"Is this real?", "Where can I buy it", "Tutorial please", "Already shared",
	}
)

// Generator produces deterministic videos and comments and keeps the mutable
// state (likes, posted comments) of the mock server in memory.
type Generator struct {
	mu       sync.Mutex
	pages    int
	seed     uint64
	now      time.Time
	videos   map[domain.Category][]*api.VideoDTO
	byID     map[string]*api.VideoDTO
	comments map[string][]api.CommentDTO
}

// NewGenerator creates a generator with pages full pages per category. The
// same seed and now always yield the same data.
func NewGenerator(pages int, seed uint64, now time.Time) *Generator {
	if pages <= 0 {
		pages = DefaultPages
	}
	return &Generator{
		pages:    pages,
		seed:     seed,
		now:      now,
		videos:   make(map[domain.Category][]*api.VideoDTO),
		byID:     make(map[string]*api.VideoDTO),
		comments: make(map[string][]api.CommentDTO),
	}
}

// Videos returns one page of a category and whether more pages follow.
func (g *Generator) Videos(category domain.Category, page, size int) ([]api.VideoDTO, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := g.categoryLocked(category)
	start, end := bounds(len(all), page, size)
	out := make([]api.VideoDTO, 0, end-start)
	for _, v := range all[start:end] {
		out = append(out, *v)
	}
	return out, end < len(all)
}

// Comments returns one page of a video's comments, newest first.
func (g *Generator) Comments(videoID string, page, size int) ([]api.CommentDTO, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	all, err := g.commentsLocked(videoID)
	if err != nil {
		return nil, false, err
	}
	start, end := bounds(len(all), page, size)
	out := make([]api.CommentDTO, end-start)
	copy(out, all[start:end])
	return out, end < len(all), nil
}

// AddComment stores a posted comment and returns the server copy. The server
// assigns its own ID and timestamp.
func (g *Generator) AddComment(c api.CommentDTO) (api.CommentDTO, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if strings.TrimSpace(c.Content) == "" {
		return api.CommentDTO{}, domain.ErrEmptyComment
	}
	all, err := g.commentsLocked(c.VideoID)
	if err != nil {
		return api.CommentDTO{}, err
	}

	c.ID = uuid.NewString()
	c.Timestamp = time.Now().UnixMilli()
	c.LikeCount = 0
	g.comments[c.VideoID] = append([]api.CommentDTO{c}, all...)
	if v := g.byID[c.VideoID]; v != nil {
		v.CommentCount++
	}
	return c, nil
}

// SetLiked updates the like flag and count of a video.
func (g *Generator) SetLiked(videoID string, liked bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.warmLocked()
	v := g.byID[videoID]
	if v == nil {
		return domain.ErrVideoNotFound
	}
	if v.IsLiked == liked {
		return nil
	}
	v.IsLiked = liked
	if liked {
		v.LikeCount++
	} else if v.LikeCount > 0 {
		v.LikeCount--
	}
	return nil
}

// Video returns a generated video by ID.
func (g *Generator) Video(videoID string) (api.VideoDTO, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.warmLocked()
	v := g.byID[videoID]
	if v == nil {
		return api.VideoDTO{}, false
	}
	return *v, true
}

// warmLocked generates every category so lookups by ID work before any
// feed has been listed.
func (g *Generator) warmLocked() {
	for _, c := range domain.Categories() {
		g.categoryLocked(c)
	}
}

func (g *Generator) categoryLocked(category domain.Category) []*api.VideoDTO {
	if vs, ok := g.videos[category]; ok {
		return vs
	}

	rng := rand.New(rand.NewPCG(g.seed, hashString(string(category))))
	total := g.pages * DefaultPageSize
	vs := make([]*api.VideoDTO, total)
	for i := range vs {
		author := i % len(authorNames)
		v := &api.VideoDTO{
			ID:           uuid.NewSHA1(idSpace, []byte(fmt.Sprintf("%s/%d", category, i))).String(),
			CoverURL:     fmt.Sprintf("https://picsum.photos/400/%d?random=%d", coverSizes[i%len(coverSizes)], i%10+1),
			VideoURL:     videoURLs[i%len(videoURLs)],
			Title:        titles[i%len(titles)],
			Description:  descriptions[i%len(descriptions)],
			AuthorName:   authorNames[author],
			AuthorAvatar: fmt.Sprintf("https://picsum.photos/100?random=%d", author+1),
			LikeCount:    1000 + rng.IntN(49001),
			CommentCount: 100 + rng.IntN(4901),
			ShareCount:   50 + rng.IntN(951),
			Width:        400,
			Height:       coverSizes[i%len(coverSizes)],
			Category:     string(category),
			// One minute apart, newest first
			Timestamp: g.now.Add(-time.Duration(i) * time.Minute).UnixMilli(),
		}
		vs[i] = v
		g.byID[v.ID] = v
	}
	g.videos[category] = vs
	return vs
}

func (g *Generator) commentsLocked(videoID string) ([]api.CommentDTO, error) {
	if cs, ok := g.comments[videoID]; ok {
		return cs, nil
	}
	g.warmLocked()
	if g.byID[videoID] == nil {
		return nil, domain.ErrVideoNotFound
	}

	rng := rand.New(rand.NewPCG(g.seed, hashString(videoID)))
	cs := make([]api.CommentDTO, DefaultCommentsPerClip)
	for i := range cs {
		cs[i] = api.CommentDTO{
			ID:        uuid.NewSHA1(idSpace, []byte(fmt.Sprintf("%s/comment/%d", videoID, i))).String(),
			VideoID:   videoID,
			UserID:    fmt.Sprintf("user_%d", i+1),
			UserName:  fmt.Sprintf("User %d", 1000+rng.IntN(9000)),
			AvatarURL: fmt.Sprintf("https://picsum.photos/100?random=%d", i+100),
			Content:   commentContents[i%len(commentContents)],
			Timestamp: g.now.Add(-time.Duration(i) * time.Minute).UnixMilli(),
			LikeCount: rng.IntN(1000),
		}
	}
	g.comments[videoID] = cs
	return cs, nil
}

func bounds(total, page, size int) (int, int) {
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
