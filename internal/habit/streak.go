package habit

import "time"

// dateLayout は達成日の保存形式。
const dateLayout = "2006-01-02"

// doneToday は指定日の達成が記録済みかどうかを判定する。
func doneToday(lastDoneDate string, today time.Time) bool {
	return lastDoneDate == today.Format(dateLayout)
}

// advanceStreak は達成記録に基づいて次の連続達成日数を計算する。
// 前回達成が昨日なら+1、それ以外（未達成・中断・不正な日付）は1にリセットする。
func advanceStreak(lastDoneDate string, streak int, today time.Time) int {
	if lastDoneDate == "" {
		return 1
	}

	lastDone, err := time.Parse(dateLayout, lastDoneDate)
	if err != nil {
		return 1
	}

	yesterday := today.AddDate(0, 0, -1).Format(dateLayout)
	if lastDone.Format(dateLayout) == yesterday {
		return streak + 1
	}
	return 1
}
