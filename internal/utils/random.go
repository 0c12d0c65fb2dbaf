package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/vetpharma/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleStaff,
	domain.RolePharmacist,
	domain.RoleManager,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateRandomArticleNumber 生成形如 AB-1234 的货号
func GenerateRandomArticleNumber() string {
	prefix := []byte{upperLetters[rand.Intn(len(upperLetters))], upperLetters[rand.Intn(len(upperLetters))]}
	return fmt.Sprintf("%s-%04d", prefix, rand.Intn(10000))
}

// GenerateRandomShift 生成一个 6 到 11 小时之间的班次，较长的班次大概率带一段午休
func GenerateRandomShift() domain.Shift {
	startHour := rand.Intn(6) + 6 // 6~11 点开始
	length := rand.Intn(6) + 6    // 6~11 小时

	shift := domain.Shift{
		StartTime: fmt.Sprintf("%02d:%02d", startHour, rand.Intn(2)*30),
		EndTime:   fmt.Sprintf("%02d:%02d", startHour+length, rand.Intn(2)*30),
		Breaks:    make([]domain.Break, 0),
	}

	// 偶尔不安排休息，方便在页面上看到提示
	if length > 6 && rand.Intn(4) > 0 {
		breakHour := startHour + length/2
		shift.Breaks = append(shift.Breaks, domain.Break{
			StartTime: fmt.Sprintf("%02d:00", breakHour),
			EndTime:   fmt.Sprintf("%02d:30", breakHour),
		})
	}

	return shift
}

var notes = []string{"Urlaub", "Berufsschule", "krank", "Fortbildung"}

// GenerateRandomWeek 为 days 中的每一天随机生成班次、备注或休息日
func GenerateRandomWeek(days []string) map[string]domain.Shift {
	shifts := make(map[string]domain.Shift)

	for _, day := range days {
		switch n := rand.Intn(10); {
		case n < 6:
			shifts[day] = GenerateRandomShift()
		case n < 7:
			shifts[day] = domain.Shift{Notes: notes[rand.Intn(len(notes))], Breaks: make([]domain.Break, 0)}
		}
	}

	return shifts
}

var germanFirstNames = []string{
	"Anna", "Lena", "Marie", "Sophie", "Laura", "Julia", "Lukas", "Jonas", "Felix", "Paul",
}

func GenerateRandomEmployeeName() string {
	return germanFirstNames[rand.Intn(len(germanFirstNames))] + " " + string(upperLetters[rand.Intn(len(upperLetters))]) + "."
}

var (
	inventoryNames = []string{"Metacam", "Baytril", "Rimadyl", "Convenia", "Synulox", "Previcox", "Cerenia", "Apoquel"}
	inventoryUnits = []string{"Flaschen", "Packungen", "Tuben", "Ampullen"}
)

// GenerateRandomInventoryItem 生成一条随机库存，now 用来计算最近订货日期和有效期
func GenerateRandomInventoryItem(ownerID int64, categories []string, now time.Time) *domain.InventoryItem {
	item := &domain.InventoryItem{
		OwnerID:       ownerID,
		ArticleNumber: GenerateRandomArticleNumber(),
		Name:          inventoryNames[rand.Intn(len(inventoryNames))],
		Category:      categories[rand.Intn(len(categories))],
		Stock:         int32(rand.Intn(30)),
		Unit:          inventoryUnits[rand.Intn(len(inventoryUnits))],
	}

	if rand.Intn(2) == 0 {
		minStock := int32(rand.Intn(10) + 1)
		item.MinStock = &minStock
	}
	if rand.Intn(2) == 0 {
		lastOrderedAt := now.AddDate(0, 0, -rand.Intn(90))
		item.LastOrderedAt = &lastOrderedAt
	}
	if rand.Intn(3) > 0 {
		expiresAt := now.AddDate(0, rand.Intn(24)-1, 0)
		item.ExpiresAt = &expiresAt
	}

	return item
}
