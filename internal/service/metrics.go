package service

import "github.com/prometheus/client_golang/prometheus"

var (
	loginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "taskhub_logins_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	usersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "taskhub_users_created_total", Help: "Users created"},
	)
	tasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "taskhub_tasks_created_total", Help: "Tasks created"},
	)
	taskWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "taskhub_task_writes_total", Help: "Task mutations by operation and outcome"},
		[]string{"op", "outcome"},
	)
)

func init() { prometheus.MustRegister(loginTotal, usersCreated, tasksCreated, taskWrites) }

func observeWrite(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	taskWrites.WithLabelValues(op, outcome).Inc()
}
