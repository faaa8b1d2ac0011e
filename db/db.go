package db

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/folionet/folio/domain"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// DB is the sqlite-backed store. It implements domain.UserStore and
// domain.PostStore; the gateway only ever calls the read side, the write
// methods exist for the platform half of the deployment and for tests.
type DB struct {
	db *sql.DB
}

const (
	//Users
	sqlCreateUsersTable = `CREATE TABLE IF NOT EXISTS users(
                        id uuid NOT NULL PRIMARY KEY,
                        handle varchar(100) UNIQUE NOT NULL,
                        display_name varchar(255),
                        bio text,
                        avatar_key varchar(500),
                        is_protected int default 0,
                        created_at timestamp default current_timestamp
                        )`
	sqlInsertUser         = `INSERT INTO users(id, handle, display_name, bio, avatar_key, is_protected, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	sqlSelectUserByHandle = `SELECT id, handle, display_name, bio, avatar_key, is_protected, created_at FROM users WHERE handle = ?`

	//Posts
	sqlCreatePostsTable = `CREATE TABLE IF NOT EXISTS posts(
                        id uuid NOT NULL PRIMARY KEY,
                        author_id uuid NOT NULL,
                        title varchar(500),
                        body text,
                        created_at timestamp default current_timestamp,
                        deleted_at timestamp
                        )`
	sqlCreatePostsIndex = `CREATE INDEX IF NOT EXISTS idx_posts_author_created
                        ON posts(author_id, created_at)`
	sqlInsertPost          = `INSERT INTO posts(id, author_id, title, body, created_at) VALUES (?, ?, ?, ?, ?)`
	sqlSoftDeletePost      = `UPDATE posts SET deleted_at = ? WHERE id = ?`
	sqlCountByAuthor       = `SELECT count(*) FROM posts WHERE author_id = ? AND deleted_at IS NULL`
	sqlSelectPostsByAuthor = `SELECT id, author_id, title, body, created_at FROM posts
                                                            WHERE author_id = ? AND deleted_at IS NULL
                                                            ORDER BY created_at DESC
                                                            LIMIT ? OFFSET ?`
	sqlSelectPostById = `SELECT posts.id, posts.author_id, posts.title, posts.body, posts.created_at, users.handle, users.is_protected FROM posts
    														INNER JOIN users ON users.id = posts.author_id
                                                            WHERE posts.id = ? AND posts.deleted_at IS NULL`
)

// Open opens (and if necessary initializes) the sqlite database at path.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Configure connection pool for concurrent access
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	var journalMode string
	err = sqlDB.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode)
	if err != nil {
		log.Printf("Warning: Failed to enable WAL mode: %v", err)
	} else {
		log.Printf("Database journal mode: %s", journalMode)
	}

	sqlDB.Exec("PRAGMA synchronous = NORMAL")
	sqlDB.Exec("PRAGMA cache_size = -64000")
	sqlDB.Exec("PRAGMA temp_store = MEMORY")
	sqlDB.Exec("PRAGMA busy_timeout = 5000")
	sqlDB.Exec("PRAGMA foreign_keys = ON")

	instance := &DB{db: sqlDB}

	if err := instance.CreateDB(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return instance, nil
}

// CreateDB creates the schema.
func (db *DB) CreateDB() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlCreateUsersTable); err != nil {
			return err
		}

		if _, err := tx.Exec(sqlCreatePostsTable); err != nil {
			return err
		}

		if _, err := tx.Exec(sqlCreatePostsIndex); err != nil {
			return err
		}

		return nil
	})
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) CreateUser(user *domain.User) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		protected := 0
		if user.IsProtected {
			protected = 1
		}
		_, err := tx.Exec(sqlInsertUser, user.Id, user.Handle, user.DisplayName, user.Bio, user.AvatarKey, protected, user.CreatedAt)
		return err
	})
}

func (db *DB) CreatePost(post *domain.Post) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertPost, post.Id, post.AuthorId, post.Title, post.Body, post.CreatedAt)
		return err
	})
}

// SoftDeletePost marks a post deleted. The row stays; every read query
// filters on deleted_at.
func (db *DB) SoftDeletePost(id uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlSoftDeletePost, time.Now(), id)
		return err
	})
}

// FindByHandle returns the user with the given handle, or nil when absent.
// Protected users are returned as-is; visibility gating is the caller's job.
func (db *DB) FindByHandle(handle string) (*domain.User, error) {
	row := db.db.QueryRow(sqlSelectUserByHandle, handle)
	var user domain.User
	var protected int
	err := row.Scan(&user.Id, &user.Handle, &user.DisplayName, &user.Bio, &user.AvatarKey, &protected, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.IsProtected = protected != 0
	return &user, nil
}

func (db *DB) CountByAuthor(authorId uuid.UUID) (int, error) {
	row := db.db.QueryRow(sqlCountByAuthor, authorId)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (db *DB) FindByAuthor(authorId uuid.UUID, limit int, offset int) ([]domain.Post, error) {
	rows, err := db.db.Query(sqlSelectPostsByAuthor, authorId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post

	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.Id, &post.AuthorId, &post.Title, &post.Body, &post.CreatedAt); err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return posts, err
	}

	return posts, nil
}

// FindById returns the post with its author joined, or nil when the post is
// absent or soft-deleted.
func (db *DB) FindById(id uuid.UUID) (*domain.Post, error) {
	row := db.db.QueryRow(sqlSelectPostById, id)
	var post domain.Post
	var protected int
	err := row.Scan(&post.Id, &post.AuthorId, &post.Title, &post.Body, &post.CreatedAt, &post.AuthorHandle, &protected)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	post.AuthorProtected = protected != 0
	return &post, nil
}

// wrapTransaction runs the given function within a transaction.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	for {
		err = f(tx)
		if err != nil {
			serr, ok := err.(*sqlite.Error)
			if ok && serr.Code() == sqlitelib.SQLITE_BUSY {
				continue
			}
			log.Printf("error in transaction: %s", err)
			return err
		}
		err = tx.Commit()
		if err != nil {
			log.Printf("error committing transaction: %s", err)
			return err
		}
		break
	}
	return nil
}
