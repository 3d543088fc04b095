package repo

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符；用 '!' 作转义符，三种方言里都不需要再转义
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// keywordScope 大小写不敏感的子串匹配，多个表达式之间 OR
func keywordScope(kw string, exprs ...string) Scope {
	like := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(kw))) + "%"
	parts := make([]string, len(exprs))
	args := make([]any, len(exprs))
	for i, e := range exprs {
		parts[i] = "LOWER(" + e + ") LIKE ? ESCAPE '!'"
		args[i] = like
	}
	cond := "(" + strings.Join(parts, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB { return db.Where(cond, args...) }
}

func eqScope(col string, v any) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", v) }
}

func inScope(col string, vs []string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(col+" IN ?", vs) }
}

func preload(rel string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(rel) }
}

func fullName(first, last string) string {
	return "CONCAT(" + first + ", ' ', " + last + ")"
}

func desc(col string) string { return col + " DESC" }
