package service

import "fmt"

// Redisキャッシュのキー。提出で進捗が動いたら該当ユーザーの分を消す
func conqueredCacheKey(userID uint) string {
	return fmt.Sprintf("progress:conquered:%d", userID)
}

func medalsCacheKey(userID uint) string {
	return fmt.Sprintf("progress:medals:%d", userID)
}

func overviewCacheKey(userID uint) string {
	return fmt.Sprintf("progress:overview:%d", userID)
}
