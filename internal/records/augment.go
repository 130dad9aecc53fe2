package records

import "github.com/jonathan/user-news-etl/internal/types"

// DefaultIcon is attached to every generated news entry
const DefaultIcon = "https://digitalinnovationone.github.io/santander-dev-week-2023-api/icons/credit.svg"

// Augment appends one news entry to the user's feed. Existing entries are
// never touched. An empty icon means DefaultIcon.
func Augment(user *types.User, text, icon string) error {
	if !user.HasNews() {
		return &MissingNewsError{UserID: user.ID}
	}
	if icon == "" {
		icon = DefaultIcon
	}
	user.News = append(user.News, types.NewsEntry{
		Icon:        icon,
		Description: text,
	})
	return nil
}
