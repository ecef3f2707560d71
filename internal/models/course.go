package models

// Course is a published (or draft) course.
type Course struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	Level            string  `json:"level"`
	Tags             *string `json:"tags,omitempty"`
	EstimatedHours   *int    `json:"estimated_hours,omitempty"`
	IsPublished      bool    `json:"is_published"`
	OwnerID          int64   `json:"owner_id"`
	CreatedAt        Time    `json:"created_at"`
}

// StudentCourses splits the catalogue for the current student.
type StudentCourses struct {
	Enrolled  []Course `json:"enrolled"`
	Available []Course `json:"available"`
}

// Module groups lessons inside a course.
type Module struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

// CourseDetail is a course with its modules and counters.
type CourseDetail struct {
	Course
	Modules          []Module `json:"modules"`
	LessonsCount     int      `json:"lessons_count"`
	AssignmentsCount int      `json:"assignments_count"`
}

// LessonNavItem is a lesson entry in the course tree.
type LessonNavItem struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	OrderIndex       int    `json:"order_index"`
}

// StructureModule is a module with its lessons.
type StructureModule struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	OrderIndex int             `json:"order_index"`
	Lessons    []LessonNavItem `json:"lessons"`
}

// CourseStructure is the modules and lessons tree used for navigation.
type CourseStructure struct {
	CourseID int64             `json:"course_id"`
	Modules  []StructureModule `json:"modules"`
}

// Lessons flattens the tree in module then lesson order.
func (s CourseStructure) Lessons() []LessonNavItem {
	var out []LessonNavItem
	for _, m := range s.Modules {
		out = append(out, m.Lessons...)
	}
	return out
}

// Neighbours returns the lessons before and after lessonID, if any.
func (s CourseStructure) Neighbours(lessonID int64) (prev, next *LessonNavItem) {
	lessons := s.Lessons()
	for i := range lessons {
		if lessons[i].ID != lessonID {
			continue
		}
		if i > 0 {
			p := lessons[i-1]
			prev = &p
		}
		if i+1 < len(lessons) {
			n := lessons[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// CreateCourseRequest is used by teacher accounts.
type CreateCourseRequest struct {
	Title            string  `json:"title" validate:"required,max=255"`
	ShortDescription string  `json:"short_description" validate:"required"`
	LongDescription  string  `json:"long_description"`
	Level            string  `json:"level" validate:"required"`
	Tags             *string `json:"tags,omitempty"`
	EstimatedHours   *int    `json:"estimated_hours,omitempty" validate:"omitempty,min=1"`
	IsPublished      bool    `json:"is_published"`
	OwnerID          int64   `json:"owner_id" validate:"required"`
}
