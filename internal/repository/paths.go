package repository

import "fmt"

// 文档路径集中在此，服务层在事务里也用同一套路径
func UserPath(uid string) string {
	return "users/" + uid
}

func ProgressPath(uid, gameID string) string {
	return fmt.Sprintf("users/%s/progress/%s", uid, gameID)
}

func DailyChallengePath(uid, date string) string {
	return fmt.Sprintf("users/%s/dailyChallenges/%s", uid, date)
}

func AchievementPath(uid, achievementID string) string {
	return fmt.Sprintf("users/%s/achievements/%s", uid, achievementID)
}

func CheckInPath(uid, date string) string {
	return fmt.Sprintf("users/%s/checkInHistory/%s", uid, date)
}

func LessonProgressPath(uid, lessonID string) string {
	return fmt.Sprintf("users/%s/lessonProgress/%s", uid, lessonID)
}

func InventoryPath(uid, itemID string) string {
	return fmt.Sprintf("users/%s/inventory/%s", uid, itemID)
}

func FCMTokenPath(uid, token string) string {
	return fmt.Sprintf("users/%s/fcmTokens/%s", uid, token)
}

func FriendPath(uid, friendUID string) string {
	return fmt.Sprintf("users/%s/friends/%s", uid, friendUID)
}

func SentFriendRequestPath(uid, targetUID string) string {
	return fmt.Sprintf("users/%s/sentFriendRequests/%s", uid, targetUID)
}

func LessonPath(lessonID string) string {
	return "lessons/" + lessonID
}

func StoreItemPath(itemID string) string {
	return "store/items/all/" + itemID
}

func LeaderboardPath(seasonID string) string {
	return "leaderboards/" + seasonID
}

func UsersCollection() string                 { return "users" }
func ProgressCollection(uid string) string    { return fmt.Sprintf("users/%s/progress", uid) }
func AchievementsCollection(uid string) string { return fmt.Sprintf("users/%s/achievements", uid) }
func DailyChallengesCollection(uid string) string {
	return fmt.Sprintf("users/%s/dailyChallenges", uid)
}
func CheckInCollection(uid string) string   { return fmt.Sprintf("users/%s/checkInHistory", uid) }
func FCMTokensCollection(uid string) string { return fmt.Sprintf("users/%s/fcmTokens", uid) }
func InventoryCollection(uid string) string { return fmt.Sprintf("users/%s/inventory", uid) }
func StoreItemsCollection() string          { return "store/items/all" }
