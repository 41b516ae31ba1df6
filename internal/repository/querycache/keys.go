package querycache

type Family string

const (
	FAMILY_POSTS    Family = "posts"
	FAMILY_FEED     Family = "feed"
	FAMILY_POST     Family = "post"
	FAMILY_SEARCH   Family = "search"
	FAMILY_COMMENTS Family = "comments"
	FAMILY_CHAT     Family = "chat-messages"
	FAMILY_PROFILE  Family = "user-profile"
)

// Key identifies one cached query. It is a value type so it can be compared
// and used as a map key directly; only the fields meaningful for the family
// are set.
type Key struct {
	Family Family
	PostID string
	UserID string
	Query  string
	Offset int
	Limit  int
}

func PostsKey(offset int, limit int) Key {
	return Key{Family: FAMILY_POSTS, Offset: offset, Limit: limit}
}

func FeedKey(offset int, limit int) Key {
	return Key{Family: FAMILY_FEED, Offset: offset, Limit: limit}
}

func PostKey(postID string) Key {
	return Key{Family: FAMILY_POST, PostID: postID}
}

func SearchKey(query string) Key {
	return Key{Family: FAMILY_SEARCH, Query: query}
}

func CommentsKey(postID string, offset int, limit int) Key {
	return Key{Family: FAMILY_COMMENTS, PostID: postID, Offset: offset, Limit: limit}
}

func ChatMessagesKey(postID string) Key {
	return Key{Family: FAMILY_CHAT, PostID: postID}
}

func ProfileKey(userID string) Key {
	return Key{Family: FAMILY_PROFILE, UserID: userID}
}
