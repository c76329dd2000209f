package model

import (
	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

// User is an account holder. Password is a bcrypt hash and never leaves
// the server.
type User struct {
	thing.BaseModel
	Username    string `db:"username,unique" json:"username"`
	Password    string `db:"password" json:"-"`
	DisplayName string `db:"display_name" json:"display_name"`
	Role        int    `db:"role" json:"role"`
	Status      int    `db:"status" json:"status"`
	Email       string `db:"email,index" json:"email"`
}

func (u *User) TableName() string {
	return "users"
}

var UserDB *thing.Thing[*User]

func UserInit() error {
	var err error
	UserDB, err = thing.Use[*User]()
	return err
}

func GetAllUsers(startIdx int, num int) ([]*User, error) {
	return UserDB.Query(thing.QueryParams{}).Order("id DESC").Fetch(startIdx, num)
}

func SearchUsers(keyword string) ([]*User, error) {
	return UserDB.Query(thing.QueryParams{}).Where(
		"id = ? OR username LIKE ? OR email LIKE ? OR display_name LIKE ?",
		keyword, keyword+"%", keyword+"%", keyword+"%",
	).Order("id DESC").Fetch(0, 100)
}

func GetUserById(id int64, lang string) (*User, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrUserNotFound, lang)
	}
	return user, nil
}

func DeleteUserById(id int64, lang string) error {
	if id == 0 {
		return i18n.New(uperrors.ErrEmptyID, lang)
	}
	user, err := UserDB.ByID(id)
	if err != nil {
		return i18n.Wrap(err, uperrors.ErrUserNotFound, lang)
	}
	return UserDB.Delete(user)
}

func (user *User) Insert() error {
	if user.Password != "" {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

func (user *User) Update(updatePassword bool) error {
	if updatePassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return err
		}
	}
	return UserDB.Save(user)
}

// ValidateAndFill checks credentials and, on success, replaces the receiver
// with the stored record. Failures are deliberately indistinguishable.
func (user *User) ValidateAndFill(lang string) error {
	if user.Username == "" || user.Password == "" {
		return i18n.New(uperrors.ErrEmptyCredentials, lang)
	}
	users, err := UserDB.Query(thing.QueryParams{}).Where("username = ?", user.Username).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return i18n.New(uperrors.ErrInvalidCredentials, lang)
	}
	found := users[0]
	okay := common.ValidatePasswordAndHash(user.Password, found.Password)
	if !okay || found.Status != common.UserStatusEnabled {
		return i18n.New(uperrors.ErrInvalidCredentials, lang)
	}
	*user = *found
	return nil
}

func (user *User) FillUserByUsername(lang string) error {
	users, err := UserDB.Query(thing.QueryParams{}).Where("username = ?", user.Username).Fetch(0, 1)
	if err != nil || len(users) == 0 {
		return i18n.New(uperrors.ErrUserNotFound, lang)
	}
	*user = *users[0]
	return nil
}

func IsEmailAlreadyTaken(email string) bool {
	users, err := UserDB.Query(thing.QueryParams{}).Where("email = ?", email).Fetch(0, 1)
	return err == nil && len(users) > 0
}

func IsUsernameAlreadyTaken(username string) bool {
	users, err := UserDB.Query(thing.QueryParams{}).Where("username = ?", username).Fetch(0, 1)
	return err == nil && len(users) > 0
}
