package address

import (
	"fmt"
	"regexp"
	"strconv"
)

// Japanese prefecture names mapped to their JIS codes. Each prefecture is
// listed with and without its 県/府/都 suffix so both spellings normalize.
var prefectureCodes = map[string]string{
	"北海道": "JP01",
	"青森県": "JP02", "青森": "JP02",
	"岩手県": "JP03", "岩手": "JP03",
	"宮城県": "JP04", "宮城": "JP04",
	"秋田県": "JP05", "秋田": "JP05",
	"山形県": "JP06", "山形": "JP06",
	"福島県": "JP07", "福島": "JP07",
	"茨城県": "JP08", "茨城": "JP08",
	"栃木県": "JP09", "栃木": "JP09",
	"群馬県": "JP10", "群馬": "JP10",
	"埼玉県": "JP11", "埼玉": "JP11",
	"千葉県": "JP12", "千葉": "JP12",
	"東京都": "JP13", "東京": "JP13",
	"神奈川県": "JP14", "神奈川": "JP14",
	"新潟県": "JP15", "新潟": "JP15",
	"富山県": "JP16", "富山": "JP16",
	"石川県": "JP17", "石川": "JP17",
	"福井県": "JP18", "福井": "JP18",
	"山梨県": "JP19", "山梨": "JP19",
	"長野県": "JP20", "長野": "JP20",
	"岐阜県": "JP21", "岐阜": "JP21",
	"静岡県": "JP22", "静岡": "JP22",
	"愛知県": "JP23", "愛知": "JP23",
	"三重県": "JP24", "三重": "JP24",
	"滋賀県": "JP25", "滋賀": "JP25",
	"京都府": "JP26", "京都": "JP26",
	"大阪府": "JP27", "大阪": "JP27",
	"兵庫県": "JP28", "兵庫": "JP28",
	"奈良県": "JP29", "奈良": "JP29",
	"和歌山県": "JP30", "和歌山": "JP30",
	"鳥取県": "JP31", "鳥取": "JP31",
	"島根県": "JP32", "島根": "JP32",
	"岡山県": "JP33", "岡山": "JP33",
	"広島県": "JP34", "広島": "JP34",
	"山口県": "JP35", "山口": "JP35",
	"徳島県": "JP36", "徳島": "JP36",
	"香川県": "JP37", "香川": "JP37",
	"愛媛県": "JP38", "愛媛": "JP38",
	"高知県": "JP39", "高知": "JP39",
	"福岡県": "JP40", "福岡": "JP40",
	"佐賀県": "JP41", "佐賀": "JP41",
	"長崎県": "JP42", "長崎": "JP42",
	"熊本県": "JP43", "熊本": "JP43",
	"大分県": "JP44", "大分": "JP44",
	"宮崎県": "JP45", "宮崎": "JP45",
	"鹿児島県": "JP46", "鹿児島": "JP46",
	"沖縄県": "JP47", "沖縄": "JP47",
}

var (
	canonicalPrefecture = regexp.MustCompile(`^JP\d{2}$`)
	numericPrefecture   = regexp.MustCompile(`^\d{1,2}$`)
)

// NormalizeState maps Japanese prefecture spellings to canonical JPnn codes.
// It applies only when country is "JP" and state is non-empty; canonical
// codes pass through unchanged, bare numbers 1-47 are zero-padded, prefecture
// names are looked up, and anything else is returned verbatim. The function
// is idempotent and never fails.
func NormalizeState(state, country string) string {
	if country != "JP" || state == "" {
		return state
	}
	if canonicalPrefecture.MatchString(state) {
		return state
	}
	if numericPrefecture.MatchString(state) {
		n, err := strconv.Atoi(state)
		if err == nil && n >= 1 && n <= 47 {
			return fmt.Sprintf("JP%02d", n)
		}
		return state
	}
	if code, ok := prefectureCodes[state]; ok {
		return code
	}
	return state
}
